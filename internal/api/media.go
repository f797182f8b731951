package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/nao1215/adoperator/internal/model"
)

// quoteEscaper escapes a multipart header parameter.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadMedia uploads a file as multipart form field "file". contentType is
// sent on the part; the backend accepts only image/* and video/*.
func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*model.MediaUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var out model.MediaUpload
	cl := call{
		method:      http.MethodPost,
		path:        "/media/upload",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
		media:       true,
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	if out.OriginalName == "" {
		out.OriginalName = filename
	}
	return &out, nil
}

// ListMedia returns the user's uploads, newest first.
func (c *Client) ListMedia(ctx context.Context) ([]model.MediaUpload, error) {
	var out []model.MediaUpload
	if err := c.get(ctx, "/media/user/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

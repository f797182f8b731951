package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/adoperator/internal/model"
)

const (
	// MaxImageSize is the largest image the backend accepts.
	MaxImageSize = 20 * 1024 * 1024
	// MaxVideoSize is the largest video the backend accepts.
	MaxVideoSize = 100 * 1024 * 1024
)

var (
	// ErrUnsupportedType is returned for files that are neither image nor video.
	ErrUnsupportedType = errors.New("apenas imagens e vídeos são aceitos")
	// ErrTooLarge is returned for files over the backend limit.
	ErrTooLarge = errors.New("arquivo excede o limite")
)

// Kind groups privacy-relevant EXIF tags.
type Kind string

const (
	// KindLocation is GPS position data.
	KindLocation Kind = "gps"
	// KindCamera is the camera make or model.
	KindCamera Kind = "camera"
	// KindSerial is a device serial number.
	KindSerial Kind = "serial"
	// KindSoftware is the editing software.
	KindSoftware Kind = "software"
	// KindAuthor is the author or copyright holder.
	KindAuthor Kind = "author"
	// KindTimestamp is when the photo was taken or edited.
	KindTimestamp Kind = "datetime"
	// KindComputer is the host computer name.
	KindComputer Kind = "computer"
)

var tagKinds = map[string]Kind{
	"GPSLatitude":        KindLocation,
	"GPSLongitude":       KindLocation,
	"GPSLatitudeRef":     KindLocation,
	"GPSLongitudeRef":    KindLocation,
	"GPSAltitude":        KindLocation,
	"Make":               KindCamera,
	"Model":              KindCamera,
	"SerialNumber":       KindSerial,
	"CameraSerialNumber": KindSerial,
	"BodySerialNumber":   KindSerial,
	"LensSerialNumber":   KindSerial,
	"Software":           KindSoftware,
	"ProcessingSoftware": KindSoftware,
	"Artist":             KindAuthor,
	"Author":             KindAuthor,
	"Copyright":          KindAuthor,
	"XPAuthor":           KindAuthor,
	"DateTimeOriginal":   KindTimestamp,
	"DateTimeDigitized":  KindTimestamp,
	"DateTime":           KindTimestamp,
	"HostComputer":       KindComputer,
}

// PrivacyTag is one EXIF entry worth stripping before upload.
type PrivacyTag struct {
	Kind  Kind   `json:"kind"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Report describes a file ready for upload.
type Report struct {
	Name        string          `json:"name"`
	ContentType string          `json:"content_type"`
	Type        model.MediaType `json:"type"`
	Size        int64           `json:"size"`
	Privacy     []PrivacyTag    `json:"privacy,omitempty"`
}

// Has reports whether the report lists a tag of kind k.
func (r *Report) Has(k Kind) bool {
	for _, p := range r.Privacy {
		if p.Kind == k {
			return true
		}
	}
	return false
}

// Inspect classifies data and checks it against the upload limits.
// The returned report is valid even when err is ErrTooLarge.
func Inspect(name string, data []byte) (*Report, error) {
	ct := contentType(name, data)
	r := &Report{
		Name:        filepath.Base(name),
		ContentType: ct,
		Size:        int64(len(data)),
	}

	var limit int64
	switch {
	case strings.HasPrefix(ct, "image/"):
		r.Type, limit = model.MediaImage, MaxImageSize
	case strings.HasPrefix(ct, "video/"):
		r.Type, limit = model.MediaVideo, MaxVideoSize
	default:
		return r, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, r.Name, ct)
	}
	if r.Size > limit {
		return r, fmt.Errorf("%w de %dMB: %s", ErrTooLarge, limit/(1024*1024), r.Name)
	}

	if r.Type == model.MediaImage {
		r.Privacy = privacyTags(data)
	}
	return r, nil
}

// ReadFile reads and inspects the file at path.
func ReadFile(path string) ([]byte, *Report, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxVideoSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read media file: %w", err)
	}
	r, err := Inspect(path, data)
	return data, r, err
}

// contentType sniffs data and falls back to the file extension when the
// content is not recognized.
func contentType(name string, data []byte) string {
	ct := http.DetectContentType(data)
	if ct != "application/octet-stream" && !strings.HasPrefix(ct, "text/plain") {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return ct
}

// privacyTags returns the privacy-relevant EXIF entries of an image.
func privacyTags(data []byte) []PrivacyTag {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil
	}

	var tags []PrivacyTag
	for _, e := range entries {
		kind, ok := tagKinds[e.TagName]
		if !ok {
			continue
		}
		tags = append(tags, PrivacyTag{Kind: kind, Tag: e.TagName, Value: e.Formatted})
	}
	return tags
}

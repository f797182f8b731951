package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nao1215/adoperator/internal/model"
	"golang.org/x/sync/errgroup"
)

// GenerateCreative generates a creative. The request is normalized first,
// so video options are only sent for video providers.
func (c *Client) GenerateCreative(ctx context.Context, req model.CreativeRequest) (*model.Creative, error) {
	req = req.Normalize()
	if !req.Provider.Valid() {
		return nil, fmt.Errorf("unknown creative provider %q", req.Provider)
	}
	var out model.Creative
	if err := c.do(ctx, call{method: http.MethodPost, path: "/creatives/generate", body: req, media: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCreatives returns the creatives of an analysis, newest first.
func (c *Client) ListCreatives(ctx context.Context, analysisID string) ([]model.Creative, error) {
	var out []model.Creative
	if err := c.get(ctx, "/creatives/list/"+seg(analysisID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreativeWorkspace is what the creative generation screen needs.
type CreativeWorkspace struct {
	Analysis  *model.Analysis
	Creatives []model.Creative
	// CreativesErr is kept when the list failed; the workspace still opens.
	CreativesErr error
}

// LoadCreativeWorkspace fetches an analysis and its creatives concurrently.
// Only the analysis is required: a failed creatives list yields an empty list.
func (c *Client) LoadCreativeWorkspace(ctx context.Context, analysisID string) (*CreativeWorkspace, error) {
	ws := &CreativeWorkspace{Creatives: []model.Creative{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := c.GetAnalysis(gctx, analysisID)
		if err != nil {
			return err
		}
		ws.Analysis = a
		return nil
	})
	g.Go(func() error {
		list, err := c.ListCreatives(gctx, analysisID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.logger.Debug("creatives list failed", "analysis_id", analysisID, "error", err)
			}
			ws.CreativesErr = err
			return nil
		}
		if list != nil {
			ws.Creatives = list
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ws, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/nao1215/adoperator/internal/model"
)

// LatestRadar returns the most recent trend radar, or nil when none exists.
func (c *Client) LatestRadar(ctx context.Context) (*model.RadarReport, error) {
	var out *model.RadarReport
	if err := c.get(ctx, "/radar/latest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateRadar builds a new trend radar from the user's completed analyses.
func (c *Client) GenerateRadar(ctx context.Context) (*model.RadarReport, error) {
	var out model.RadarReport
	if err := c.do(ctx, call{method: http.MethodPost, path: "/radar/generate", media: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

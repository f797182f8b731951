package api

import (
	"context"
	"net/http"

	"github.com/nao1215/adoperator/internal/model"
)

// AnalyzeCompetitor scrapes and analyzes a competitor URL.
func (c *Client) AnalyzeCompetitor(ctx context.Context, target string) (*model.CompetitorAnalysis, error) {
	var out model.CompetitorAnalysis
	if err := c.do(ctx, call{method: http.MethodPost, path: "/competitor/analyze", body: map[string]string{"url": target}, media: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCompetitorAnalyses returns previous competitor analyses.
func (c *Client) ListCompetitorAnalyses(ctx context.Context) ([]model.CompetitorAnalysis, error) {
	var out []model.CompetitorAnalysis
	if err := c.get(ctx, "/competitor/analyses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeImages compares competitor images by perceptual hash.
func (c *Client) AnalyzeImages(ctx context.Context, req model.ImageAnalysisRequest) (*model.ImageAnalysis, error) {
	var out model.ImageAnalysis
	if err := c.do(ctx, call{method: http.MethodPost, path: "/competitor/image-analysis", body: req, media: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

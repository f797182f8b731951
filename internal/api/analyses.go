package api

import (
	"context"
	"net/http"

	"github.com/nao1215/adoperator/internal/model"
)

// CreateAnalysis submits a product and returns the new analysis (status created).
func (c *Client) CreateAnalysis(ctx context.Context, p model.Product) (*model.Analysis, error) {
	var out model.Analysis
	if err := c.post(ctx, "/analyses", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAnalyses returns the user's analyses, newest first.
func (c *Client) ListAnalyses(ctx context.Context) ([]model.Analysis, error) {
	var out []model.Analysis
	if err := c.get(ctx, "/analyses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAnalysis fetches one analysis.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var out model.Analysis
	if err := c.get(ctx, "/analyses/"+seg(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAnalysis deletes one analysis.
func (c *Client) DeleteAnalysis(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/analyses/" + seg(id)}, nil)
}

// UpdateProduct replaces the product of an analysis.
func (c *Client) UpdateProduct(ctx context.Context, id string, p model.Product) error {
	return c.do(ctx, call{method: http.MethodPatch, path: "/analyses/" + seg(id) + "/product", body: p}, nil)
}

// Parse runs the strategic interpretation stage.
func (c *Client) Parse(ctx context.Context, id string) (*model.StrategicAnalysis, error) {
	var out model.StrategicAnalysis
	if err := c.post(ctx, "/analyses/"+seg(id)+"/parse", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Generate runs the ad generation stage.
func (c *Client) Generate(ctx context.Context, id string) (*model.AdVariations, error) {
	var out model.AdVariations
	if err := c.post(ctx, "/analyses/"+seg(id)+"/generate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Simulate runs the audience simulation stage.
func (c *Client) Simulate(ctx context.Context, id string) (*model.AudienceSimulation, error) {
	var out model.AudienceSimulation
	if err := c.post(ctx, "/analyses/"+seg(id)+"/simulate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Decide runs the decision stage.
func (c *Client) Decide(ctx context.Context, id string) (*model.Decision, error) {
	var out model.Decision
	if err := c.post(ctx, "/analyses/"+seg(id)+"/decide", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StrategyTable builds the per-profile strategy table.
func (c *Client) StrategyTable(ctx context.Context, id string) (*model.StrategyTable, error) {
	var out model.StrategyTable
	if err := c.post(ctx, "/analyses/"+seg(id)+"/strategy-table", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Share publishes the analysis and returns its public token. Sharing twice
// returns the same token.
func (c *Client) Share(ctx context.Context, id string) (*model.ShareResult, error) {
	var out model.ShareResult
	if err := c.post(ctx, "/analyses/"+seg(id)+"/share", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Improve starts a new analysis seeded from a completed one.
func (c *Client) Improve(ctx context.Context, id string) (*model.Analysis, error) {
	var out model.Analysis
	if err := c.post(ctx, "/analyses/"+seg(id)+"/improve", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarketCompare compares the analysis with ads from the market.
func (c *Client) MarketCompare(ctx context.Context, id string) (*model.MarketComparison, error) {
	var out model.MarketComparison
	if err := c.post(ctx, "/analyses/"+seg(id)+"/market-compare", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Public fetches a shared analysis. No token is sent.
func (c *Client) Public(ctx context.Context, token string) (*model.Analysis, error) {
	var out model.Analysis
	if err := c.do(ctx, call{method: http.MethodGet, path: "/public/" + seg(token), anonymous: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckCompliance runs the backend compliance check on free text.
func (c *Client) CheckCompliance(ctx context.Context, text string) (*model.ComplianceReport, error) {
	var out model.ComplianceReport
	if err := c.do(ctx, call{method: http.MethodPost, path: "/compliance/check", body: map[string]string{"text": text}, anonymous: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

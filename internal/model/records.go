package model

import (
	"encoding/json"
	"slices"
)

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ShareResult carries the public token issued for an analysis.
type ShareResult struct {
	PublicToken string `json:"public_token"`
}

// StrategyTable is the operational table of approaches per audience profile.
type StrategyTable struct {
	Profiles []StrategyProfile `json:"perfis"`

	Raw json.RawMessage `json:"-"`
}

// StrategyProfile is one row of the strategy table.
type StrategyProfile struct {
	Name       Text `json:"nome"`
	Approach   Text `json:"abordagem"`
	Motivation Text `json:"motivacao"`
	Script     Text `json:"roteiro"`
	Strengths  Text `json:"pontos_fortes"`
	Weaknesses Text `json:"pontos_fracos"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *StrategyTable) UnmarshalJSON(data []byte) error {
	*t = StrategyTable{Raw: verbatim(data)}
	decodeFields(data, map[string]any{"perfis": &t.Profiles})
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t StrategyTable) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type alias StrategyTable
	return json.Marshal(alias(t))
}

// MarketComparison compares the user's strategy with what the niche runs today.
type MarketComparison struct {
	HowMarketSells      Text       `json:"como_mercado_vende"`
	DominantPatterns    []Text     `json:"padroes_dominantes"`
	PersistentAds       []MarketAd `json:"anuncios_persistentes"`
	MarketAds           []MarketAd `json:"anuncios_mercado"`
	UserComparison      Payload    `json:"comparativo_usuario,omitempty"`
	HooksByType         Payload    `json:"hooks_por_tipo,omitempty"`
	RecommendedChanges  []Text     `json:"recomendacoes"`
	DifferentiationTips []Text     `json:"oportunidades_diferenciacao"`

	Raw json.RawMessage `json:"-"`
}

// MarketAd is an ad pattern observed in the niche.
type MarketAd struct {
	Hook              Text `json:"hook"`
	Description       Text `json:"descricao"`
	EstimatedDuration Text `json:"duracao_estimada"`
	Frequency         Text `json:"frequencia"`
	Example           Text `json:"exemplo"`
	CTA               Text `json:"cta"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *MarketComparison) UnmarshalJSON(data []byte) error {
	*m = MarketComparison{Raw: verbatim(data)}
	decodeFields(data, map[string]any{
		"como_mercado_vende":          &m.HowMarketSells,
		"padroes_dominantes":          &m.DominantPatterns,
		"anuncios_persistentes":       &m.PersistentAds,
		"anuncios_mercado":            &m.MarketAds,
		"comparativo_usuario":         &m.UserComparison,
		"hooks_por_tipo":              &m.HooksByType,
		"recomendacoes":               &m.RecommendedChanges,
		"oportunidades_diferenciacao": &m.DifferentiationTips,
	})
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m MarketComparison) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type alias MarketComparison
	return json.Marshal(alias(m))
}

// CompetitorAnalysis is a strategic reading of a competitor page or creative.
// The analyze endpoint returns the result flattened next to the id, while the
// list endpoint nests it under "result"; both decode to the same value.
type CompetitorAnalysis struct {
	ID        string        `json:"id"`
	URL       string        `json:"url,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
	Result    Payload       `json:"result,omitempty"`
	Scraping  *ScrapingData `json:"-"`
}

// ScrapingData is the metadata the backend collected while fetching the URL.
type ScrapingData struct {
	URL         string    `json:"url"`
	HookType    string    `json:"hook_type_auto"`
	BlockRisk   BlockRisk `json:"block_risk_auto"`
	ImagesFound int       `json:"images_found"`
	SourceType  string    `json:"source_type"`
}

// BlockRisk is the backend's estimate of an ad platform rejecting the copy.
type BlockRisk struct {
	Level string   `json:"level"`
	Terms []string `json:"terms"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CompetitorAnalysis) UnmarshalJSON(data []byte) error {
	*c = CompetitorAnalysis{}
	decodeFields(data, map[string]any{
		"id":         &c.ID,
		"url":        &c.URL,
		"created_at": &c.CreatedAt,
		"result":     &c.Result,
	})
	if !c.Result.Present() {
		c.Result = Payload(verbatim(data))
	}
	var scraping ScrapingData
	if c.Result.Field("scraping_data", &scraping) {
		c.Scraping = &scraping
		if c.URL == "" {
			c.URL = scraping.URL
		}
	}
	return nil
}

// Field decodes a key of the analysis result into v.
func (c CompetitorAnalysis) Field(key string, v any) bool {
	return c.Result.Field(key, v)
}

// CreativeProvider selects the backend generator for a creative.
type CreativeProvider string

const (
	// ProviderNanoBanana generates an image.
	ProviderNanoBanana CreativeProvider = "nano_banana"
	// ProviderGPTImage generates an image.
	ProviderGPTImage CreativeProvider = "gpt_image"
	// ProviderClaudeText generates a text art-direction briefing.
	ProviderClaudeText CreativeProvider = "claude_text"
	// ProviderSoraVideo generates a short video.
	ProviderSoraVideo CreativeProvider = "sora_video"
)

// CreativeProviders returns the known providers.
func CreativeProviders() []CreativeProvider {
	return []CreativeProvider{ProviderNanoBanana, ProviderGPTImage, ProviderClaudeText, ProviderSoraVideo}
}

// Valid reports whether p is a known provider.
func (p CreativeProvider) Valid() bool {
	return slices.Contains(CreativeProviders(), p)
}

// IsVideo reports whether p produces a video.
func (p CreativeProvider) IsVideo() bool {
	return p == ProviderSoraVideo
}

const (
	// DefaultVideoSize is used when the requested size is not supported.
	DefaultVideoSize = "1280x720"
	// DefaultVideoDuration is used when the requested duration is not supported.
	DefaultVideoDuration = 4
)

var (
	videoSizes     = []string{"1280x720", "1792x1024", "1024x1792", "1024x1024"}
	videoDurations = []int{4, 8, 12}
	hookTemplates  = []string{"vsl", "ugc", "before_after", "depoimento", "problema_solucao"}
)

// VideoSizes returns the supported video sizes.
func VideoSizes() []string { return slices.Clone(videoSizes) }

// VideoDurations returns the supported video durations in seconds.
func VideoDurations() []int { return slices.Clone(videoDurations) }

// HookTemplates returns the creative direction templates known to the backend.
func HookTemplates() []string { return slices.Clone(hookTemplates) }

// CreativeRequest asks the backend to generate a creative for an analysis.
type CreativeRequest struct {
	AnalysisID       string           `json:"analysis_id"`
	Prompt           string           `json:"prompt,omitempty"`
	Provider         CreativeProvider `json:"provider"`
	VideoSize        string           `json:"video_size,omitempty"`
	VideoDuration    int              `json:"video_duration,omitempty"`
	HookTemplate     string           `json:"hook_template,omitempty"`
	ParentCreativeID string           `json:"parent_creative_id,omitempty"`
}

// Normalize coerces unsupported options to the backend defaults: an unknown
// hook template is dropped and image and text providers carry no video options.
func (r CreativeRequest) Normalize() CreativeRequest {
	if !slices.Contains(hookTemplates, r.HookTemplate) {
		r.HookTemplate = ""
	}
	if !r.Provider.IsVideo() {
		r.VideoSize = ""
		r.VideoDuration = 0
		return r
	}
	if !slices.Contains(videoSizes, r.VideoSize) {
		r.VideoSize = DefaultVideoSize
	}
	if !slices.Contains(videoDurations, r.VideoDuration) {
		r.VideoDuration = DefaultVideoDuration
	}
	return r
}

// Creative is one generated creative version.
type Creative struct {
	ID               string           `json:"id"`
	Provider         CreativeProvider `json:"provider"`
	Briefing         Payload          `json:"briefing,omitempty"`
	PromptUsed       string           `json:"prompt_used,omitempty"`
	ImageURL         string           `json:"image_url,omitempty"`
	VideoURL         string           `json:"video_url,omitempty"`
	Version          int              `json:"version,omitempty"`
	HookTemplate     string           `json:"hook_template,omitempty"`
	ParentCreativeID string           `json:"parent_creative_id,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
}

// RadarReport is the periodic trend summary across the user's analyses.
type RadarReport struct {
	ID              string `json:"id,omitempty"`
	Summary         Text   `json:"resumo"`
	MarketChanges   []Text `json:"mudancas_mercado"`
	Recommendations []Text `json:"recomendacoes"`
	CreatedAt       string `json:"created_at,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RadarReport) UnmarshalJSON(data []byte) error {
	*r = RadarReport{Raw: verbatim(data)}
	decodeFields(data, map[string]any{
		"id":               &r.ID,
		"resumo":           &r.Summary,
		"mudancas_mercado": &r.MarketChanges,
		"recomendacoes":    &r.Recommendations,
		"created_at":       &r.CreatedAt,
	})
	return nil
}

// MediaType is the kind of an uploaded file.
type MediaType string

const (
	// MediaImage is an uploaded image.
	MediaImage MediaType = "image"
	// MediaVideo is an uploaded video.
	MediaVideo MediaType = "video"
)

// MediaUpload is the backend record of an uploaded file.
type MediaUpload struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Type         MediaType `json:"type"`
	Size         int64     `json:"size"`
	OriginalName string    `json:"original_name,omitempty"`
}

// PushSubscription is a platform push endpoint with its encryption keys.
type PushSubscription struct {
	Endpoint string   `json:"endpoint"`
	Keys     PushKeys `json:"keys"`
}

// PushKeys are the subscription's public key and auth secret, base64url encoded.
type PushKeys struct {
	P256DH string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// ImageAnalysisRequest asks the backend to perceptually hash competitor images.
// At most ten URLs are hashed; CompareWith optionally names an analysis whose
// creatives are compared against them.
type ImageAnalysisRequest struct {
	ImageURLs   []string `json:"image_urls"`
	CompareWith string   `json:"compare_with_analysis_id,omitempty"`
}

// ImageAnalysis is the result of a perceptual hash comparison.
type ImageAnalysis struct {
	Images              []ImageHash          `json:"images"`
	CreativeComparisons []CreativeComparison `json:"creative_comparisons"`
	CrossComparisons    []CrossComparison    `json:"cross_comparisons"`
	Summary             ImageSummary         `json:"summary"`
}

// ImageHash is the perceptual hash of one image. Status is "ok" or "failed".
type ImageHash struct {
	URL    string `json:"url"`
	PHash  string `json:"phash"`
	Status string `json:"status"`
}

// CreativeComparison compares a competitor image with one of the user's creatives.
type CreativeComparison struct {
	CompetitorURL     string  `json:"competitor_url"`
	CreativeID        string  `json:"creative_id"`
	CreativeProvider  string  `json:"creative_provider"`
	CreativeVersion   int     `json:"creative_version"`
	Distance          int     `json:"distance"`
	SimilarityPercent float64 `json:"similarity_percent"`
	IsSimilar         bool    `json:"is_similar"`
}

// CrossComparison compares two competitor images.
type CrossComparison struct {
	ImageA            string  `json:"image_a"`
	ImageB            string  `json:"image_b"`
	Distance          int     `json:"distance"`
	SimilarityPercent float64 `json:"similarity_percent"`
	IsSimilar         bool    `json:"is_similar"`
}

// ImageSummary counts the comparison outcomes.
type ImageSummary struct {
	TotalImages        int `json:"total_images"`
	HashedSuccessfully int `json:"hashed_successfully"`
	SimilarToCreatives int `json:"similar_to_creatives"`
	SimilarCross       int `json:"similar_cross"`
}

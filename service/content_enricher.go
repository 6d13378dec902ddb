// ABOUTME: This file implements AI enrichment of bookmark content
// ABOUTME: Calls an Ollama-compatible generate API for summary, keywords and category
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"briefcard/config"
	"briefcard/domain"
)

// enrichmentCategories are the categories the model may choose from. Anything
// outside this set is mapped to the default category.
var enrichmentCategories = map[string]bool{
	"科技": true,
	"財經": true,
	"生活": true,
	"娛樂": true,
	"教育": true,
	"健康": true,
	"其他": true,
}

// maxEnrichmentContent caps how much page text is sent to the model.
const maxEnrichmentContent = 4000

// Prompt template tuned for small local models. The model must answer with a
// single JSON object so the response can be parsed mechanically.
const enrichmentPrompt = `<start_of_turn>user
You are a bookmarking assistant. Read the web page below and respond with a
single JSON object, no other text:

{"summary": "...", "keywords": ["...", "..."], "category": "..."}

- "summary": 2-3 sentences in Traditional Chinese describing what the page is about
- "keywords": 3-5 short keywords in Traditional Chinese
- "category": exactly one of 科技, 財經, 生活, 娛樂, 教育, 健康, 其他

TITLE: %s

PAGE CONTENT:
---
%s
---
<end_of_turn>
<start_of_turn>model
`

type generatePayload struct {
	Model     string          `json:"model"`
	Prompt    string          `json:"prompt"`
	Options   generateOptions `json:"options"`
	KeepAlive int             `json:"keep_alive"`
	Stream    bool            `json:"stream"`
}

type generateOptions struct {
	Stop        []string `json:"stop"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	NumCtx      int      `json:"num_ctx"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type enrichmentPayload struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
}

// ContentEnricher implementation.
type contentEnricher struct {
	client *http.Client
	cfg    *config.EnricherConfig
	logger *slog.Logger
}

// NewContentEnricher creates an enricher that talks to an Ollama-compatible
// generate endpoint.
func NewContentEnricher(cfg *config.EnricherConfig, logger *slog.Logger) ContentEnricher {
	return &contentEnricher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Enrich generates summary, keywords and category for the page content.
// Callers treat any error as degraded enrichment, not as pipeline failure.
func (e *contentEnricher) Enrich(ctx context.Context, title, content string) (*EnrichmentResult, error) {
	if strings.TrimSpace(content) == "" && strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("nothing to enrich")
	}

	runes := []rune(content)
	if len(runes) > maxEnrichmentContent {
		content = string(runes[:maxEnrichmentContent])
	}

	payload := generatePayload{
		Model:     e.cfg.Model,
		Prompt:    fmt.Sprintf(enrichmentPrompt, title, content),
		Stream:    false,
		KeepAlive: -1,
		Options: generateOptions{
			Temperature: 0.0,
			TopP:        0.9,
			NumPredict:  400,
			NumCtx:      8192,
			Stop:        []string{"<end_of_turn>"},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enrichment payload: %w", err)
	}

	apiURL := e.cfg.Host + e.cfg.APIPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(string(jsonData)))
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	e.logger.DebugContext(ctx, "calling enricher API", "api_url", apiURL, "model", e.cfg.Model)

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.ErrorContext(ctx, "enricher request failed", "error", err, "api_url", apiURL)
		return nil, fmt.Errorf("enricher request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		e.logger.ErrorContext(ctx, "enricher returned non-200 status", "status", resp.Status, "body", string(bodyBytes))
		return nil, fmt.Errorf("enricher request failed with status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read enricher response: %w", err)
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse enricher response: %w", err)
	}

	if !apiResponse.Done {
		e.logger.WarnContext(ctx, "received incomplete response from enricher")
	}

	result, err := parseEnrichment(apiResponse.Response)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to parse model output", "error", err)
		return nil, err
	}

	e.logger.InfoContext(ctx, "content enriched",
		"category", result.Category,
		"keywords", len(result.Keywords),
		"summary_length", len(result.Summary))

	return result, nil
}

// parseEnrichment extracts the JSON object from the raw model output. Models
// often wrap JSON in code fences or prose, so it scans for the outermost
// braces before unmarshaling.
func parseEnrichment(raw string) (*EnrichmentResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in model output: %w", err)
	}

	category := strings.TrimSpace(payload.Category)
	if !enrichmentCategories[category] {
		category = domain.DefaultCategory
	}

	keywords := make([]string, 0, len(payload.Keywords))
	for _, kw := range payload.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &EnrichmentResult{
		Summary:  strings.TrimSpace(payload.Summary),
		Keywords: keywords,
		Category: category,
	}, nil
}

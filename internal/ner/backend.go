// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ner

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/project-lux/ner-engine/pkg/types"
)

// Request is a single generation request to the model.
type Request struct {
	// Prompt is the full prompt text.
	Prompt string

	// Grounded enables the Google Search grounding tool for this call.
	Grounded bool
}

// Response is the model's reply, reduced to the parts the annotator needs.
type Response struct {
	// Text is the concatenated text content, trimmed.
	Text string

	// FinishReason records why generation stopped, for diagnostics.
	FinishReason string

	// Grounding carries search metadata when the call was grounded.
	Grounding *types.GroundingMetadata
}

// Backend abstracts the generative AI API so tests can supply a mock.
// Per Strategy pattern.
type Backend interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// GeminiBackend calls the Gemini API through the google.golang.org/genai
// client. It supports both the Gemini API backend (API key) and the
// Vertex AI backend (project + location).
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates the genai client from cfg.
func NewGeminiBackend(ctx context.Context, cfg types.AIConfig) (*GeminiBackend, error) {
	cc := &genai.ClientConfig{}
	if cfg.VertexProject != "" {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.VertexProject
		cc.Location = cfg.VertexLocation
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Generate sends one prompt and returns the reply text plus grounding
// metadata when present.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) (Response, error) {
	cfg := plainConfig()
	if req.Grounded {
		cfg = groundedConfig()
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return Response{}, fmt.Errorf("calling Gemini API: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Response{}, fmt.Errorf("Gemini API returned no candidates")
	}
	cand := resp.Candidates[0]

	out := Response{FinishReason: string(cand.FinishReason)}

	if gm := cand.GroundingMetadata; gm != nil {
		meta := &types.GroundingMetadata{
			SearchQueries: gm.WebSearchQueries,
		}
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			meta.Sources = append(meta.Sources, types.GroundingSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
		out.Grounding = meta
	}

	if cand.Content != nil {
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		out.Text = strings.TrimSpace(sb.String())
	}

	return out, nil
}

// plainConfig is the generation config for ungrounded calls: low
// temperature, JSON output, moderate safety blocking.
func plainConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		TopP:             genai.Ptr[float32](0.8),
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
		SafetySettings:   safetySettings(genai.HarmBlockThresholdBlockMediumAndAbove),
	}
}

// groundedConfig enables the Google Search tool. Temperature 1.0 follows
// the Vertex AI grounding guidance, and the safety thresholds are relaxed
// because grounded search snippets trip the medium filters on harmless
// historical text.
func groundedConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](1.0),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		SafetySettings: safetySettings(genai.HarmBlockThresholdBlockOnlyHigh),
	}
}

func safetySettings(threshold genai.HarmBlockThreshold) []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, len(categories))
	for i, cat := range categories {
		settings[i] = &genai.SafetySetting{Category: cat, Threshold: threshold}
	}
	return settings
}

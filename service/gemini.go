package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HiwarkhedePrasad/VakilAi/config"
)

// Generator is the external text-generation capability. Implementations must
// be safe for concurrent use; tests inject a fake returning canned responses.
type Generator interface {
	// Generate returns the model's free-text completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateJSON requests a JSON-shaped completion and returns the raw body.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text into the fixed-width vector space shared by the
// reference index. Seed-time and query-time vectors must come from the same
// embedder or rankings silently corrupt.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

type GeminiService struct {
	config     *config.GeminiConfig
	dimension  int
	httpClient *http.Client
}

// geminiGenerateRequest represents the generateContent request body
type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

// geminiGenerateResponse represents the generateContent response body
type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

// geminiEmbedRequest represents the embedContent request body
type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

// geminiEmbedResponse represents the embedContent response body
type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewGeminiService(cfg *config.GeminiConfig, dimension int) *GeminiService {
	return &GeminiService{
		config:    cfg,
		dimension: dimension,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Generate sends a free-text generation request
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, prompt, "")
}

// GenerateJSON sends a generation request constrained to a JSON response
func (s *GeminiService) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, prompt, "application/json")
}

func (s *GeminiService) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	reqBody := geminiGenerateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if mimeType != "" {
		reqBody.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: mimeType}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.config.APIURL, s.config.Model)

	var result geminiGenerateResponse
	if err := s.post(ctx, url, reqBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// Embed computes the embedding vector for text
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := geminiEmbedRequest{
		Model:                "models/" + s.config.EmbeddingModel,
		Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
		OutputDimensionality: s.dimension,
	}

	url := fmt.Sprintf("%s/models/%s:embedContent", s.config.APIURL, s.config.EmbeddingModel)

	var result geminiEmbedResponse
	if err := s.post(ctx, url, reqBody, &result); err != nil {
		return nil, err
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Embedding.Values) != s.dimension {
		return nil, fmt.Errorf("unexpected embedding width %d, want %d", len(result.Embedding.Values), s.dimension)
	}

	return result.Embedding.Values, nil
}

// Dimension returns the configured embedding width
func (s *GeminiService) Dimension() int {
	return s.dimension
}

func (s *GeminiService) post(ctx context.Context, url string, reqBody, result any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	return nil
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-assistant-be/internal/apperror"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

// GeminiProvider calls the Generative Language embedContent endpoints directly
// over HTTP. Gemini embeddings come back unit-normalized, so no post-processing
// is applied before they are handed to the vector store.
type GeminiProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

var _ Provider = (*GeminiProvider)(nil)

func NewGeminiProvider(apiKey string, model string) *GeminiProvider {
	if model == "" {
		model = "models/embedding-001"
	}
	return &GeminiProvider{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *GeminiProvider) ModelName() string {
	return p.Model
}

// Wire structures for embedContent / batchEmbedContents.
type geminiEmbedPart struct {
	Text string `json:"text"`
}

type geminiEmbedContent struct {
	Parts []geminiEmbedPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string             `json:"model"`
	Content  geminiEmbedContent `json:"content"`
	TaskType string             `json:"taskType,omitempty"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbeddingValues struct {
	Values []float32 `json:"values"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbeddingValues `json:"embedding"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []geminiEmbeddingValues `json:"embeddings"`
}

func (p *GeminiProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	reqBody := geminiEmbedRequest{
		Model:    p.qualifiedModel(),
		Content:  geminiEmbedContent{Parts: []geminiEmbedPart{{Text: text}}},
		TaskType: TaskRetrievalQuery,
	}

	raw, err := p.invoke(ctx, "embedContent", reqBody)
	if err != nil {
		return nil, err
	}

	var res geminiEmbedResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode gemini embedding response: %w", err)
	}
	if len(res.Embedding.Values) == 0 {
		return nil, &apperror.APIError{Provider: "gemini", Message: "empty embedding returned"}
	}
	return res.Embedding.Values, nil
}

func (p *GeminiProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	reqBody := geminiBatchEmbedRequest{Requests: make([]geminiEmbedRequest, 0, len(texts))}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, geminiEmbedRequest{
			Model:    p.qualifiedModel(),
			Content:  geminiEmbedContent{Parts: []geminiEmbedPart{{Text: text}}},
			TaskType: TaskRetrievalDocument,
		})
	}

	raw, err := p.invoke(ctx, "batchEmbedContents", reqBody)
	if err != nil {
		return nil, err
	}

	var res geminiBatchEmbedResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode gemini batch embedding response: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, &apperror.APIError{
			Provider: "gemini",
			Message:  fmt.Sprintf("batch embedding count mismatch: sent %d, received %d", len(texts), len(res.Embeddings)),
		}
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *GeminiProvider) invoke(ctx context.Context, method string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:%s", geminiBaseURL, p.bareModel(), method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, &apperror.APIError{Provider: "gemini", Message: "embedding request failed", Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, &apperror.APIError{Provider: "gemini", StatusCode: res.StatusCode, Message: string(raw)}
	}
	return raw, nil
}

// The REST path wants the bare model id while the request body wants the
// models/-qualified name. Config may carry either form.
func (p *GeminiProvider) bareModel() string {
	return strings.TrimPrefix(p.Model, "models/")
}

func (p *GeminiProvider) qualifiedModel() string {
	if strings.HasPrefix(p.Model, "models/") {
		return p.Model
	}
	return "models/" + p.Model
}

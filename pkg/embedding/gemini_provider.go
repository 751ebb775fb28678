package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiProvider implements EmbeddingProvider against the Gemini
// text-embedding-004 API (768 dimensions, same as the local default).
type GeminiProvider struct {
	ApiKey  string
	BaseURL string
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1",
	}
}

type geminiRequestContentPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestContentPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

func (p *GeminiProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	modelName := "text-embedding-004"

	geminiReq := geminiEmbeddingRequest{
		Model: modelName,
		Content: geminiRequestContent{
			Parts: []geminiRequestContentPart{
				{
					Text: text,
				},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.BaseURL, modelName)

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, err
	}

	resEmbedding.Embedding.Values = normalizeVector(resEmbedding.Embedding.Values)

	return &resEmbedding, nil
}

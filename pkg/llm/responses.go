package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// Respond posts a raw JSON body to the provider's responses endpoint. The SDK
// request types do not model the hosted web_search tool the way we need it,
// so this path builds the payload by hand and decodes the envelope leniently.
func (c *Client) Respond(ctx context.Context, req *ResponseRequest) (*ResponseResult, error) {
	if req == nil {
		return nil, errors.New("llm: request cannot be nil")
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, errors.New("llm: responses request requires input")
	}

	modelID := strings.TrimSpace(req.Model)
	if modelID == "" {
		modelID = c.config.Model
	}

	body := map[string]any{
		"model": modelID,
		"input": req.Input,
	}
	if req.Instructions != "" {
		body["instructions"] = req.Instructions
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
	}
	if req.MaxOutputTokens != nil {
		body["max_output_tokens"] = *req.MaxOutputTokens
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/responses"
	data, _ := json.Marshal(body)

	start := time.Now()
	c.logger.Info(ctx, "llm responses request", Fields{
		"model": modelID,
		"tools": len(req.Tools),
	})

	var envelope responseEnvelope
	if err := c.retryHandler.Do(ctx, func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if reqErr != nil {
			return reqErr
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, callErr := c.rawHTTPClient().Do(httpReq)
		if callErr != nil {
			return callErr
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Wrap as openai.Error so the retry policy recognises retriable
			// status codes.
			return &openai.Error{StatusCode: resp.StatusCode}
		}
		b, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return readErr
		}
		var parsed responseEnvelope
		if err := json.Unmarshal(b, &parsed); err != nil {
			return fmt.Errorf("llm: decode response envelope: %w", err)
		}
		envelope = parsed
		return nil
	}); err != nil {
		// Avoid leaking an openai.Error with nil Request/Response, which can
		// panic on Error().
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("llm: http %d", apiErr.StatusCode)
		}
		return nil, err
	}

	if envelope.Error != nil && envelope.Error.Message != "" {
		return nil, fmt.Errorf("llm: responses call failed: %s", envelope.Error.Message)
	}

	result := &ResponseResult{
		ID:    envelope.ID,
		Model: envelope.Model,
		Text:  envelope.text(),
		Usage: Usage{
			PromptTokens:     envelope.Usage.InputTokens,
			CompletionTokens: envelope.Usage.OutputTokens,
			TotalTokens:      envelope.Usage.TotalTokens,
		},
	}

	c.logger.Info(ctx, "llm responses success", Fields{
		"model":         result.Model,
		"duration_ms":   time.Since(start).Milliseconds(),
		"input_tokens":  result.Usage.PromptTokens,
		"output_tokens": result.Usage.CompletionTokens,
	})

	return result, nil
}

func (c *Client) rawHTTPClient() *http.Client {
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.config.Timeout}
	}
	return c.httpClient
}

// responseEnvelope tolerates both envelope styles the endpoint is known to
// emit: a flat output_text convenience field, or a list of output items each
// carrying content parts.
type responseEnvelope struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *responseEnvelope) text() string {
	if e.OutputText != "" {
		return e.OutputText
	}
	var b strings.Builder
	for _, item := range e.Output {
		for _, part := range item.Content {
			switch part.Type {
			case "output_text", "text", "":
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

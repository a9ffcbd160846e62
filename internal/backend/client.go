// Package backend selects and talks to chat-completion AI endpoints. Every
// supported endpoint speaks the OpenAI-compatible wire format, so a single
// HTTP client serves them all; which endpoint is used depends on which
// credentials are present in the environment.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when no backend candidate resolves. Callers must
// degrade the dependent feature rather than treat this as fatal.
var ErrUnavailable = errors.New("no AI backend available")

// DefaultTimeout bounds every chat-completion request.
const DefaultTimeout = 20 * time.Second

// DefaultMaxTokens is the token budget sent with each request.
const DefaultMaxTokens = 2048

// Client is the interface the rest of the program uses to talk to a backend.
type Client interface {
	// Complete sends a system instruction and a user message and returns the
	// generated text.
	Complete(ctx context.Context, system, user string) (string, error)
	// CompleteVision sends a user message with an attached PNG image.
	// Clients for text-only models return an error.
	CompleteVision(ctx context.Context, system, user string, png []byte) (string, error)
	// Probe checks that the endpoint accepts the credential. It must be
	// side-effect-free; listing models satisfies that.
	Probe(ctx context.Context) error
	// ModelName returns the model identifier requests are sent with.
	ModelName() string
}

// chatClient is an OpenAI-compatible chat-completions client.
type chatClient struct {
	baseURL    string
	apiKey     string
	model      string
	vision     bool
	maxTokens  int
	httpClient *http.Client
}

// NewChatClient creates a client for an OpenAI-compatible endpoint.
func NewChatClient(baseURL, apiKey, model string, vision bool) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &chatClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		vision:    vision,
		maxTokens: DefaultMaxTokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

func (c *chatClient) ModelName() string {
	return c.model
}

// chat wire structures. Content is interface{} because vision messages carry
// a list of typed parts instead of a plain string.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	ImageURL *chatImagePart `json:"image_url,omitempty"`
}

type chatImagePart struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *chatClient) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []chatMessage{}
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	return c.complete(ctx, messages)
}

func (c *chatClient) CompleteVision(ctx context.Context, system, user string, png []byte) (string, error) {
	if !c.vision {
		return "", fmt.Errorf("model %s does not accept images", c.model)
	}
	if len(png) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	messages := []chatMessage{}
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{
		Role: "user",
		Content: []chatContentPart{
			{Type: "text", Text: user},
			{Type: "image_url", ImageURL: &chatImagePart{URL: dataURL}},
		},
	})

	return c.complete(ctx, messages)
}

func (c *chatClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	payload := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("completion timed out: %w", err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("backend returned an error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Probe lists models on the endpoint, which exercises authentication without
// consuming tokens.
func (c *chatClient) Probe(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe failed: status %d", resp.StatusCode)
	}
	return nil
}

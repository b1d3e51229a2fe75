package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// ChatRequest holds the parameters of one completion call. Logger, when
// set, receives the diagnostics of this call instead of the client's own
// logger, so verbosity can follow the session.
type ChatRequest struct {
	Model       string
	Messages    []models.Message
	Temperature float64
	Logger      *zerolog.Logger
}

// chatCompletionBody is the JSON request body. Temperature is always sent,
// so an explicit 0 is not dropped.
type chatCompletionBody struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Temperature float64                        `json:"temperature"`
	Stream      bool                           `json:"stream,omitempty"`
}

func wireRole(r models.Role) string {
	switch r {
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func buildBody(req ChatRequest, stream bool) ([]byte, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{
			Role:    wireRole(m.Role),
			Content: m.Content,
		}
	}

	body := chatCompletionBody{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		Stream:      stream,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return data, nil
}

// send validates req, posts it, and returns the response once the status
// has been checked. The caller owns resp.Body.
func (c *Client) send(ctx context.Context, req ChatRequest, stream bool) (*http.Response, error) {
	if err := ValidateMessages(req.Messages); err != nil {
		return nil, err
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	payload, err := buildBody(req, stream)
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	headers := models.DefaultHeaders()
	if stream {
		headers = models.StreamHeaders()
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log := c.loggerFor(req)
	log.Debug().
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Bool("stream", stream).
		Msg("sending completion request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apierrors.WrapTransportError("chat completion", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp, endpoint)
	}

	return resp, nil
}

// statusError builds the typed error for a non-200 response. 401 becomes an
// AuthError; everything else an APIError carrying the body.
func statusError(resp *http.Response, endpoint string) error {
	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	}

	message := errorMessage(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		authErr := apierrors.NewAuthError(message)
		authErr.Endpoint = endpoint
		return authErr
	}

	return apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, message, string(body))
}

// errorMessage extracts the message of an OpenAI-style error body
func errorMessage(body []byte) string {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		return strings.TrimSpace(errResp.Error.Message)
	}
	return ""
}

package api

import (
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

// Complete sends req and waits for the whole response
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*models.Completion, error) {
	resp, err := c.send(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.WrapTransportError("read response", c.endpoint(), err)
	}

	out, err := ParseCompletion(body)
	if err != nil {
		return nil, err
	}

	log := c.loggerFor(req)
	log.Debug().
		Int("content_len", len(out.Content)).
		Int("reasoning_len", len(out.Reasoning)).
		Str("finish_reason", out.FinishReason).
		Msg("completion received")

	return out, nil
}

// ParseCompletion checks the shape of a buffered completion response and
// extracts the first choice. Any missing or mistyped field yields a
// ValidationError.
func ParseCompletion(body []byte) (*models.Completion, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewValidationError("response is not valid JSON", "")
	}

	root := gjson.ParseBytes(body)
	choices := root.Get("choices")
	if !choices.IsArray() {
		return nil, apierrors.NewValidationError("missing choices array", "choices")
	}
	if len(choices.Array()) == 0 {
		return nil, apierrors.NewValidationError("choices array is empty", "choices")
	}

	message := choices.Get("0.message")
	if !message.IsObject() {
		return nil, apierrors.NewValidationError("missing message object", "choices[0].message")
	}

	content := message.Get("content")
	if content.Type != gjson.String {
		return nil, apierrors.NewValidationError(
			fmt.Sprintf("content must be a string, got %s", content.Type), "choices[0].message.content")
	}

	out := &models.Completion{
		Content:      content.String(),
		FinishReason: choices.Get("0.finish_reason").String(),
	}

	reasoning := message.Get("reasoning_content")
	switch reasoning.Type {
	case gjson.String:
		out.Reasoning = reasoning.String()
	case gjson.Null:
	default:
		return nil, apierrors.NewValidationError(
			fmt.Sprintf("reasoning_content must be a string, got %s", reasoning.Type),
			"choices[0].message.reasoning_content")
	}

	return out, nil
}

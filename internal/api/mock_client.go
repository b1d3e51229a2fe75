package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coodar/dscli/internal/models"
)

// MockResult scripts one call of MockClient. Err fails the call outright;
// otherwise Complete returns Completion and Stream replays Chunks. When
// Truncated is set the replayed stream ends without its sentinel.
type MockResult struct {
	Completion *models.Completion
	Chunks     []models.DeltaChunk
	Truncated  bool
	Err        error
}

// MockClient is a scripted stand-in for Client
type MockClient struct {
	mu      sync.Mutex
	Results []MockResult
	Calls   []ChatRequest
}

// NewMockClient creates a MockClient that answers with results in order
func NewMockClient(results ...MockResult) *MockClient {
	return &MockClient{Results: results}
}

// CallCount returns the number of calls made so far
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// next records req and returns the scripted result for this call. Once the
// script runs out the last result repeats.
func (m *MockClient) next(req ChatRequest) (MockResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := make([]models.Message, len(req.Messages))
	copy(msgs, req.Messages)
	req.Messages = msgs
	m.Calls = append(m.Calls, req)

	if len(m.Results) == 0 {
		return MockResult{}, fmt.Errorf("mock client has no scripted results")
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	return m.Results[idx], nil
}

// Complete implements the buffered call
func (m *MockClient) Complete(ctx context.Context, req ChatRequest) (*models.Completion, error) {
	if err := ValidateMessages(req.Messages); err != nil {
		return nil, err
	}
	res, err := m.next(req)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Completion == nil {
		return &models.Completion{}, nil
	}
	out := *res.Completion
	return &out, nil
}

// Stream implements the streaming call by replaying scripted chunks
// through the real decoder.
func (m *MockClient) Stream(ctx context.Context, req ChatRequest) (*Stream, error) {
	if err := ValidateMessages(req.Messages); err != nil {
		return nil, err
	}
	res, err := m.next(req)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}

	body := EncodeEventStream(res.Chunks, !res.Truncated)
	return NewStream(io.NopCloser(bytes.NewReader(body)), models.ContentTypeEventStream, zerolog.Nop())
}

// EncodeEventStream renders chunks as an event-stream body in the wire
// format of the completion service, followed by the sentinel when
// terminated is true.
func EncodeEventStream(chunks []models.DeltaChunk, terminated bool) []byte {
	var buf bytes.Buffer
	for _, c := range chunks {
		delta := map[string]string{}
		if c.Content != "" || c.Reasoning == "" {
			delta["content"] = c.Content
		}
		if c.Reasoning != "" {
			delta["reasoning_content"] = c.Reasoning
		}
		record := map[string]interface{}{
			"object":  "chat.completion.chunk",
			"choices": []interface{}{map[string]interface{}{"index": 0, "delta": delta}},
		}
		data, _ := json.Marshal(record)
		buf.WriteString(sseDataPrefix + " ")
		buf.Write(data)
		buf.WriteString("\n\n")
	}
	if terminated {
		buf.WriteString(sseDataPrefix + " " + sseDone + "\n\n")
	}
	return buf.Bytes()
}

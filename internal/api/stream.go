package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
)

const (
	sseDataPrefix = "data:"
	sseDone       = "[DONE]"

	streamBufferSize    = 64 * 1024
	streamMaxRecordSize = 1024 * 1024
)

// Stream decodes a server-sent event body into DeltaChunks. It is consumed
// once with Next/Current and must be closed by the caller.
type Stream struct {
	body     io.ReadCloser
	scanner  *bufio.Scanner
	endpoint string
	logger   zerolog.Logger

	current models.DeltaChunk
	err     error
	done    bool
	closed  bool
	skipped int
}

// NewStream wraps body after checking that contentType is an event stream.
// On a mismatch body is closed and a ProtocolError is returned.
func NewStream(body io.ReadCloser, contentType string, logger zerolog.Logger) (*Stream, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != models.ContentTypeEventStream {
		_ = body.Close()
		return nil, apierrors.NewProtocolError("expected an event stream", contentType)
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, streamBufferSize), streamMaxRecordSize)

	return &Stream{
		body:    body,
		scanner: scanner,
		logger:  logger,
	}, nil
}

// Stream sends req with streaming enabled and returns the decoder over the
// open response body.
func (c *Client) Stream(ctx context.Context, req ChatRequest) (*Stream, error) {
	resp, err := c.send(ctx, req, true)
	if err != nil {
		return nil, err
	}

	s, err := NewStream(resp.Body, resp.Header.Get("Content-Type"), c.loggerFor(req))
	if err != nil {
		return nil, err
	}
	s.endpoint = c.endpoint()
	return s, nil
}

// Next advances to the next chunk. It returns false at the terminal
// sentinel or on error; check Err afterwards.
func (s *Stream) Next() bool {
	if s.done || s.err != nil || s.closed {
		return false
	}

	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if !strings.HasPrefix(line, sseDataPrefix) {
			// blank separators, comments and event/id fields
			continue
		}

		payload := strings.TrimPrefix(line[len(sseDataPrefix):], " ")
		if strings.TrimSpace(payload) == sseDone {
			s.done = true
			return false
		}

		chunk, ok, err := decodeChunk(payload)
		if err != nil {
			s.err = err
			return false
		}
		if !ok {
			s.skipped++
			s.logger.Debug().Int("len", len(payload)).Msg("skipping undecodable stream record")
			continue
		}

		s.current = chunk
		return true
	}

	if err := s.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			// resending would fail the same way
			s.err = &apierrors.ProtocolError{
				Message: fmt.Sprintf("stream record larger than %d bytes", streamMaxRecordSize),
				Err:     err,
			}
			return false
		}
		s.err = apierrors.WrapTransportError("read stream", s.endpoint, err)
		return false
	}

	s.err = &apierrors.ProtocolError{
		Message: "stream ended before " + sseDone,
		Err:     apierrors.ErrUnexpectedEOF,
	}
	return false
}

// Current returns the chunk produced by the last successful Next
func (s *Stream) Current() models.DeltaChunk {
	return s.current
}

// Err returns the error that stopped the stream, if any. A stream that
// reached its terminal sentinel has no error.
func (s *Stream) Err() error {
	return s.err
}

// Done reports whether the terminal sentinel was seen
func (s *Stream) Done() bool {
	return s.done
}

// Skipped returns how many records were dropped as malformed
func (s *Stream) Skipped() int {
	return s.skipped
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// decodeChunk parses one data payload. ok is false for records that should
// be skipped: invalid JSON, or JSON without a delta. A delta whose text
// fields are not strings is a shape error.
func decodeChunk(payload string) (chunk models.DeltaChunk, ok bool, err error) {
	if !gjson.Valid(payload) {
		return chunk, false, nil
	}

	root := gjson.Parse(payload)
	if apiErr := root.Get("error"); apiErr.IsObject() {
		return chunk, false, apierrors.NewAPIError(0, "stream", apiErr.Get("message").String())
	}

	delta := root.Get("choices.0.delta")
	if !delta.IsObject() {
		return chunk, false, nil
	}

	content, err := deltaText(delta, "content")
	if err != nil {
		return chunk, false, err
	}
	reasoning, err := deltaText(delta, "reasoning_content")
	if err != nil {
		return chunk, false, err
	}

	return models.DeltaChunk{Content: content, Reasoning: reasoning}, true, nil
}

func deltaText(delta gjson.Result, field string) (string, error) {
	v := delta.Get(field)
	switch v.Type {
	case gjson.String:
		return v.String(), nil
	case gjson.Null:
		return "", nil
	default:
		return "", apierrors.NewValidationError(
			fmt.Sprintf("%s must be a string, got %s", field, v.Type),
			"choices[0].delta."+field)
	}
}

package planner

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strings"

	"vamo/internal/models/chat_models"
)

const doneSentinel = "[DONE]"

// TokenStream reads newline-delimited "data: <json>" frames off a message
// stream. It is a finite, non-restartable sequence: once Next returns
// io.EOF or an error the stream is spent.
type TokenStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

// NewTokenStream wraps a response body carrying SSE frames. The caller
// owns Close.
func NewTokenStream(body io.ReadCloser) *TokenStream {
	return &TokenStream{
		body:    body,
		scanner: bufio.NewScanner(body),
	}
}

// Next returns the next decoded chunk. io.EOF signals a clean end, either
// the [DONE] sentinel or the underlying stream finishing. Frames that fail
// to decode are skipped, matching how the app consumed this stream.
func (s *TokenStream) Next() (*chat_models.StreamChunk, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")

		if payload == doneSentinel {
			s.done = true
			return nil, io.EOF
		}

		var chunk chat_models.StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			log.Printf("Skipping undecodable stream frame: %s", payload)
			continue
		}
		return &chunk, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *TokenStream) Close() error {
	s.done = true
	return s.body.Close()
}

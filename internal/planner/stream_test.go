package planner

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestTokenStreamYieldsChunks(t *testing.T) {
	body := "data: {\"token\": \"Se\"}\n" +
		"data: {\"token\": \"oul\"}\n" +
		"data: {\"token\": \" trip\", \"finish_reason\": \"stop\"}\n" +
		"data: [DONE]\n"

	s := NewTokenStream(io.NopCloser(strings.NewReader(body)))
	defer s.Close()

	var tokens []string
	var finish string
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tokens = append(tokens, chunk.Token)
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
	}

	if got := strings.Join(tokens, ""); got != "Seoul trip" {
		t.Errorf("tokens folded to %q", got)
	}
	if finish != "stop" {
		t.Errorf("finish_reason not delivered: %q", finish)
	}
}

func TestTokenStreamStopsAtDone(t *testing.T) {
	body := "data: {\"token\": \"a\"}\n" +
		"data: [DONE]\n" +
		"data: {\"token\": \"after\"}\n"

	s := NewTokenStream(io.NopCloser(strings.NewReader(body)))
	defer s.Close()

	chunk, err := s.Next()
	if err != nil || chunk.Token != "a" {
		t.Fatalf("first chunk wrong: %v %v", chunk, err)
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF at sentinel, got %v", err)
	}
	// spent stream stays spent
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after sentinel, got %v", err)
	}
}

func TestTokenStreamSkipsGarbageFrames(t *testing.T) {
	body := "data: not-json\n" +
		": comment line\n" +
		"\n" +
		"data: {\"token\": \"ok\"}\n" +
		"data: [DONE]\n"

	s := NewTokenStream(io.NopCloser(strings.NewReader(body)))
	defer s.Close()

	chunk, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Token != "ok" {
		t.Errorf("expected garbage skipped, got token %q", chunk.Token)
	}
}

type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func (r *failingReader) Close() error { return nil }

func TestTokenStreamSurfacesReadErrors(t *testing.T) {
	s := NewTokenStream(&failingReader{data: "data: {\"token\": \"x\"}\n"})
	defer s.Close()

	chunk, err := s.Next()
	if err != nil || chunk.Token != "x" {
		t.Fatalf("first chunk wrong: %v %v", chunk, err)
	}
	_, err = s.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected read error, got %v", err)
	}
}

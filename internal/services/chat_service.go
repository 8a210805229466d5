package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vamo/internal/models/chat_models"
	"vamo/internal/models/plan_models"
	"vamo/internal/planner"
	"vamo/pkg/utils"
)

// TokenSink receives stream chunks as they arrive, so the facade can relay
// them onward while the service folds them into the buffer.
type TokenSink func(chat_models.StreamChunk)

type ChatServiceInterface interface {
	StartConversation(ctx context.Context, initialMessage string) (string, error)
	LoadConversation(ctx context.Context, id string) (*chat_models.Conversation, error)
	LoadConversations(ctx context.Context) ([]chat_models.ConversationSummary, error)
	SendMessage(ctx context.Context, content string, sink TokenSink) (*chat_models.Message, error)
	GeneratePlan(ctx context.Context) (*plan_models.TravelPlan, error)
	DeleteConversation(ctx context.Context, id string) error

	Conversation() *chat_models.Conversation
	Conversations() []chat_models.ConversationSummary
	Streaming() (bool, string)
	LastError() string
	ClearError()
}

func NewChatService(client planner.ClientInterface) ChatServiceInterface {
	return &ChatService{
		client: client,
	}
}

// ChatService holds the active conversation, the summary list, and the
// transient streaming buffer. Message history is append-only: messages
// land in arrival order and are never reordered or rolled back, including
// the optimistically appended user message of a failed send.
type ChatService struct {
	client planner.ClientInterface

	mu            sync.RWMutex
	conversations []chat_models.ConversationSummary
	current       *chat_models.Conversation
	streaming     bool
	buffer        strings.Builder
	lastError     string
}

// StartConversation creates a conversation, loads its detail, then
// refreshes the summary list. The list and the detail are eventually
// consistent, not atomically.
func (s *ChatService) StartConversation(ctx context.Context, initialMessage string) (string, error) {
	if strings.TrimSpace(initialMessage) == "" {
		return "", s.fail(utils.ErrInvalidInput)
	}

	created, err := s.client.CreateConversation(ctx, initialMessage)
	if err != nil {
		return "", s.fail(err)
	}

	if _, err := s.LoadConversation(ctx, created.ConversationID); err != nil {
		return "", err
	}
	if _, err := s.LoadConversations(ctx); err != nil {
		log.Printf("Conversation list refresh failed after create: %v", err)
	}
	return created.ConversationID, nil
}

func (s *ChatService) LoadConversation(ctx context.Context, id string) (*chat_models.Conversation, error) {
	conv, err := s.client.GetConversation(ctx, id)
	if err != nil {
		return nil, s.fail(utils.MapNotFound(err, utils.ErrConversationNotFound))
	}

	s.mu.Lock()
	s.current = conv
	s.lastError = ""
	s.mu.Unlock()
	return conv, nil
}

func (s *ChatService) LoadConversations(ctx context.Context) ([]chat_models.ConversationSummary, error) {
	list, err := s.client.ListConversations(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.conversations = list
	s.mu.Unlock()
	return list, nil
}

// SendMessage runs one turn of the streaming state machine:
//
//	Idle -> append user message -> Streaming -> fold tokens -> terminal
//	frame flushes the buffer into a permanent assistant message -> Idle.
//
// A streaming failure abandons the stream and tries the non-streaming
// endpoint exactly once with the same content. If that also fails the
// turn ends with no assistant message; the user message stays.
func (s *ChatService) SendMessage(ctx context.Context, content string, sink TokenSink) (*chat_models.Message, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, s.fail(utils.ErrNoActiveConversation)
	}
	convID := s.current.ID
	s.streaming = true
	s.buffer.Reset()
	s.lastError = ""
	s.current.Messages = append(s.current.Messages, chat_models.Message{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           chat_models.RoleUser,
		Content:        content,
		CreatedAt:      utils.NowRFC3339(),
	})
	s.mu.Unlock()

	msg, err := s.streamTurn(ctx, convID, content, sink)
	if err == nil {
		return msg, nil
	}
	log.Printf("Streaming failed for conversation %s, falling back: %v", convID, err)

	return s.fallbackTurn(ctx, convID, content)
}

func (s *ChatService) streamTurn(ctx context.Context, convID, content string, sink TokenSink) (*chat_models.Message, error) {
	stream, err := s.client.StreamMessage(ctx, convID, content)
	if err != nil {
		s.endStreaming()
		return nil, err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.endStreaming()
			return nil, err
		}

		s.mu.Lock()
		s.buffer.WriteString(chunk.Token)
		s.mu.Unlock()
		if sink != nil {
			sink(*chunk)
		}

		if chunk.FinishReason != "" {
			return s.flushBuffer(convID, chunk.FinishReason), nil
		}
	}

	// The service closed the stream without a terminal frame. Whatever
	// accumulated is still a complete answer; an empty buffer is a
	// failed turn and takes the fallback path.
	s.mu.RLock()
	buffered := s.buffer.Len()
	s.mu.RUnlock()
	if buffered == 0 {
		s.endStreaming()
		return nil, &utils.NetworkError{Err: errors.New("stream ended without content")}
	}
	return s.flushBuffer(convID, "stop"), nil
}

// flushBuffer turns the transient buffer into a permanent assistant
// message, clears the buffer, and leaves the Streaming state.
func (s *ChatService) flushBuffer(convID, finishReason string) *chat_models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := chat_models.Message{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           chat_models.RoleAssistant,
		Content:        s.buffer.String(),
		FinishReason:   finishReason,
		CreatedAt:      utils.NowRFC3339(),
	}
	s.buffer.Reset()
	s.streaming = false
	if s.current != nil && s.current.ID == convID {
		s.current.Messages = append(s.current.Messages, msg)
	}
	return &msg
}

func (s *ChatService) fallbackTurn(ctx context.Context, convID, content string) (*chat_models.Message, error) {
	reply, err := s.client.SendMessage(ctx, convID, content)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msg := chat_models.Message{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           chat_models.RoleAssistant,
		Content:        reply,
		CreatedAt:      utils.NowRFC3339(),
	}
	if s.current != nil && s.current.ID == convID {
		s.current.Messages = append(s.current.Messages, msg)
	}
	return &msg, nil
}

// GeneratePlan asks the planner to build an itinerary out of the active
// conversation.
func (s *ChatService) GeneratePlan(ctx context.Context) (*plan_models.TravelPlan, error) {
	s.mu.RLock()
	convID := ""
	if s.current != nil {
		convID = s.current.ID
	}
	s.mu.RUnlock()
	if convID == "" {
		return nil, s.fail(utils.ErrNoActiveConversation)
	}

	raw, err := s.client.GeneratePlanFromConversation(ctx, convID)
	if err != nil {
		return nil, s.fail(err)
	}
	plan, err := planner.Normalize(raw)
	if err != nil {
		return nil, s.fail(err)
	}
	return plan, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, id string) error {
	if err := s.client.DeleteConversation(ctx, id); err != nil {
		return s.fail(utils.MapNotFound(err, utils.ErrConversationNotFound))
	}

	s.mu.Lock()
	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *ChatService) Conversation() *chat_models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	out.Messages = append([]chat_models.Message(nil), s.current.Messages...)
	return &out
}

func (s *ChatService) Conversations() []chat_models.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chat_models.ConversationSummary(nil), s.conversations...)
}

// Streaming reports whether a turn is in flight and the buffered partial
// assistant output so far.
func (s *ChatService) Streaming() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streaming, s.buffer.String()
}

func (s *ChatService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *ChatService) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *ChatService) endStreaming() {
	s.mu.Lock()
	s.streaming = false
	s.buffer.Reset()
	s.mu.Unlock()
}

// fail records the error in the state's error field and passes it through.
func (s *ChatService) fail(err error) error {
	s.mu.Lock()
	s.lastError = err.Error()
	s.streaming = false
	s.mu.Unlock()
	return err
}

package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"vamo/internal/models/chat_models"
	"vamo/internal/models/request_models"
	"vamo/pkg/utils"
)

// ClientInterface is the remote planning service. Plan-producing calls
// return the raw payload so every response flows through Normalize in one
// place, the services.
type ClientInterface interface {
	GeneratePlan(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error)
	ReviewPlan(ctx context.Context, req request_models.ReviewPlanRequest) (json.RawMessage, error)
	ListPlans(ctx context.Context) ([]json.RawMessage, error)
	GetPlan(ctx context.Context, id string) (json.RawMessage, error)
	UpdatePlan(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error)
	DeletePlan(ctx context.Context, id string) error

	CreateConversation(ctx context.Context, initialMessage string) (*chat_models.CreateConversationResponse, error)
	GetConversation(ctx context.Context, id string) (*chat_models.Conversation, error)
	ListConversations(ctx context.Context) ([]chat_models.ConversationSummary, error)
	DeleteConversation(ctx context.Context, id string) error
	SendMessage(ctx context.Context, conversationID, content string) (string, error)
	StreamMessage(ctx context.Context, conversationID, content string) (*TokenStream, error)
	GeneratePlanFromConversation(ctx context.Context, conversationID string) (json.RawMessage, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// NewClientFromEnv reads PLANNER_API_URL, defaulting to the local dev
// backend like the app did.
func NewClientFromEnv() *Client {
	base := os.Getenv("PLANNER_API_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	return NewClient(base)
}

// planEnvelope is the {plan: ...} wrapper the generate/review endpoints
// put around their payload.
type planEnvelope struct {
	Plan json.RawMessage `json:"plan"`
}

func (c *Client) GeneratePlan(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error) {
	var env planEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/ai/plans/generate", req, &env); err != nil {
		return nil, err
	}
	return env.Plan, nil
}

func (c *Client) ReviewPlan(ctx context.Context, req request_models.ReviewPlanRequest) (json.RawMessage, error) {
	var env planEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/ai/plans/review", req, &env); err != nil {
		return nil, err
	}
	return env.Plan, nil
}

func (c *Client) ListPlans(ctx context.Context) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/plans", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) GetPlan(ctx context.Context, id string) (json.RawMessage, error) {
	var record json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+id, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error) {
	var record json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/api/plans/"+id, patch, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plans/"+id, nil, nil)
}

func (c *Client) CreateConversation(ctx context.Context, initialMessage string) (*chat_models.CreateConversationResponse, error) {
	body := request_models.CreateConversationRequest{InitialMessage: initialMessage}
	var out chat_models.CreateConversationResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/conversations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConversation(ctx context.Context, id string) (*chat_models.Conversation, error) {
	var out chat_models.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/ai/conversations/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListConversations(ctx context.Context) ([]chat_models.ConversationSummary, error) {
	var out []chat_models.ConversationSummary
	if err := c.do(ctx, http.MethodGet, "/api/ai/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ai/conversations/"+id, nil, nil)
}

func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (string, error) {
	body := request_models.SendMessageRequest{Content: content}
	var out struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/ai/conversations/%s/messages", conversationID)
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// StreamMessage opens the SSE message stream. The returned TokenStream
// owns the response body; callers must drain or Close it.
func (c *Client) StreamMessage(ctx context.Context, conversationID, content string) (*TokenStream, error) {
	payload, err := json.Marshal(request_models.SendMessageRequest{Content: content})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/api/ai/conversations/%s/messages/stream", c.baseURL, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &utils.NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &utils.NetworkError{Status: resp.StatusCode, Body: string(body)}
	}

	return NewTokenStream(resp.Body), nil
}

func (c *Client) GeneratePlanFromConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/ai/conversations/%s/generate-plan", conversationID)
	var out struct {
		PlanID    json.Number     `json:"plan_id"`
		Itinerary json.RawMessage `json:"itinerary"`
	}
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &out); err != nil {
		return nil, err
	}
	return out.Itinerary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &utils.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &utils.NetworkError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &utils.MalformedPlanError{Detail: "undecodable response body"}
	}
	return nil
}

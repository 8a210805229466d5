package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"vamo/internal/models/chat_models"
	"vamo/internal/models/request_models"
	"vamo/internal/planner"
)

// fakePlannerClient scripts the remote planning service per test. Unset
// funcs panic so a test exercising an unexpected call fails loudly.
type fakePlannerClient struct {
	generatePlan     func(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error)
	reviewPlan       func(ctx context.Context, req request_models.ReviewPlanRequest) (json.RawMessage, error)
	listPlans        func(ctx context.Context) ([]json.RawMessage, error)
	getPlan          func(ctx context.Context, id string) (json.RawMessage, error)
	updatePlan       func(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error)
	deletePlan       func(ctx context.Context, id string) error
	createConv       func(ctx context.Context, initialMessage string) (*chat_models.CreateConversationResponse, error)
	getConv          func(ctx context.Context, id string) (*chat_models.Conversation, error)
	listConvs        func(ctx context.Context) ([]chat_models.ConversationSummary, error)
	deleteConv       func(ctx context.Context, id string) error
	sendMessage      func(ctx context.Context, conversationID, content string) (string, error)
	streamMessage    func(ctx context.Context, conversationID, content string) (*planner.TokenStream, error)
	generateFromConv func(ctx context.Context, conversationID string) (json.RawMessage, error)
}

var _ planner.ClientInterface = (*fakePlannerClient)(nil)

func (f *fakePlannerClient) GeneratePlan(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error) {
	return f.generatePlan(ctx, req)
}

func (f *fakePlannerClient) ReviewPlan(ctx context.Context, req request_models.ReviewPlanRequest) (json.RawMessage, error) {
	return f.reviewPlan(ctx, req)
}

func (f *fakePlannerClient) ListPlans(ctx context.Context) ([]json.RawMessage, error) {
	return f.listPlans(ctx)
}

func (f *fakePlannerClient) GetPlan(ctx context.Context, id string) (json.RawMessage, error) {
	return f.getPlan(ctx, id)
}

func (f *fakePlannerClient) UpdatePlan(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error) {
	return f.updatePlan(ctx, id, patch)
}

func (f *fakePlannerClient) DeletePlan(ctx context.Context, id string) error {
	return f.deletePlan(ctx, id)
}

func (f *fakePlannerClient) CreateConversation(ctx context.Context, initialMessage string) (*chat_models.CreateConversationResponse, error) {
	return f.createConv(ctx, initialMessage)
}

func (f *fakePlannerClient) GetConversation(ctx context.Context, id string) (*chat_models.Conversation, error) {
	return f.getConv(ctx, id)
}

func (f *fakePlannerClient) ListConversations(ctx context.Context) ([]chat_models.ConversationSummary, error) {
	return f.listConvs(ctx)
}

func (f *fakePlannerClient) DeleteConversation(ctx context.Context, id string) error {
	return f.deleteConv(ctx, id)
}

func (f *fakePlannerClient) SendMessage(ctx context.Context, conversationID, content string) (string, error) {
	return f.sendMessage(ctx, conversationID, content)
}

func (f *fakePlannerClient) StreamMessage(ctx context.Context, conversationID, content string) (*planner.TokenStream, error) {
	return f.streamMessage(ctx, conversationID, content)
}

func (f *fakePlannerClient) GeneratePlanFromConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	return f.generateFromConv(ctx, conversationID)
}

// sseStream builds a TokenStream over scripted SSE text.
func sseStream(body string) *planner.TokenStream {
	return planner.NewTokenStream(io.NopCloser(strings.NewReader(body)))
}

func flatPlanJSON(id, title string, totalCost int) json.RawMessage {
	plan := map[string]interface{}{
		"id":         id,
		"title":      title,
		"total_days": 1,
		"total_cost": totalCost,
		"days": []map[string]interface{}{
			{
				"day":        1,
				"date":       "2025-03-01",
				"theme":      "",
				"daily_cost": totalCost,
				"activities": []map[string]interface{}{
					{
						"time":             "09:00",
						"venue_name":       "Somewhere",
						"venue_type":       "attraction",
						"duration_minutes": 60,
						"cost":             totalCost,
						"description":      "",
					},
				},
			},
		},
	}
	raw, _ := json.Marshal(plan)
	return raw
}

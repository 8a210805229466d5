package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vamo/internal/models/chat_models"
	"vamo/internal/models/request_models"
	"vamo/internal/services"
	"vamo/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
	planService services.PlanServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface, planService services.PlanServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
		planService: planService,
	}
}

// CreateConversation godoc
// @Summary Start a conversation
// @Description Create a conversation with an initial message and load it as the active one
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.CreateConversationRequest true "Initial message"
// @Success 200 {object} chat_models.Conversation
// @Router /conversations [post]
func (ch *ChatController) CreateConversation(c *gin.Context) {
	var req request_models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	id, err := ch.chatService.StartConversation(c.Request.Context(), req.InitialMessage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"conversation_id": id, "conversation": ch.chatService.Conversation()}, "Conversation started successfully")
}

// GetConversations godoc
// @Summary List conversations
// @Tags Chat
// @Produce json
// @Success 200 {array} chat_models.ConversationSummary
// @Router /conversations [get]
func (ch *ChatController) GetConversations(c *gin.Context) {
	list, err := ch.chatService.LoadConversations(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "Conversations fetched successfully")
}

// GetConversation godoc
// @Summary Get a conversation
// @Description Fetch one conversation and make it the active one
// @Tags Chat
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} chat_models.Conversation
// @Router /conversations/{conversationId} [get]
func (ch *ChatController) GetConversation(c *gin.Context) {
	id := c.Param("conversationId")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "Conversation ID is required")
		return
	}

	conv, err := ch.chatService.LoadConversation(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, conv, "Conversation fetched successfully")
}

// DeleteConversation godoc
// @Summary Delete a conversation
// @Tags Chat
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} utils.APIResponse
// @Router /conversations/{conversationId} [delete]
func (ch *ChatController) DeleteConversation(c *gin.Context) {
	id := c.Param("conversationId")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, "Conversation ID is required")
		return
	}

	if err := ch.chatService.DeleteConversation(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Conversation deleted successfully")
}

// SendMessage godoc
// @Summary Send a message
// @Description Send a message on the active conversation and return the assistant's reply once complete
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.SendMessageRequest true "Message content"
// @Success 200 {object} chat_models.Message
// @Router /conversations/messages [post]
func (ch *ChatController) SendMessage(c *gin.Context) {
	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	msg, err := ch.chatService.SendMessage(c.Request.Context(), req.Content, nil)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, msg, "Message sent successfully")
}

// StreamMessage godoc
// @Summary Send a message, streaming the reply
// @Description Relay the assistant's tokens as server-sent events, ending with the complete message
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param request body request_models.SendMessageRequest true "Message content"
// @Router /conversations/messages/stream [post]
func (ch *ChatController) StreamMessage(c *gin.Context) {
	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sink := func(chunk chat_models.StreamChunk) {
		c.SSEvent("token", chunk)
		c.Writer.Flush()
	}

	msg, err := ch.chatService.SendMessage(c.Request.Context(), req.Content, sink)
	if err != nil {
		c.SSEvent("error", gin.H{"message": err.Error()})
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", msg)
	c.Writer.Flush()
}

// GeneratePlanFromConversation godoc
// @Summary Generate a plan from the active conversation
// @Description Ask the planner to turn the conversation into an itinerary; the result becomes the current plan
// @Tags Chat
// @Produce json
// @Success 200 {object} plan_models.TravelPlan
// @Router /conversations/generate-plan [post]
func (ch *ChatController) GeneratePlanFromConversation(c *gin.Context) {
	plan, err := ch.chatService.GeneratePlan(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	ch.planService.SetCurrentPlan(plan)
	utils.RespondSuccess(c, plan, "Plan generated successfully")
}

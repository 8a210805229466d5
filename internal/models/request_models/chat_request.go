package request_models

import (
	"strings"

	"vamo/pkg/utils"
)

type CreateConversationRequest struct {
	InitialMessage string `json:"initial_message" binding:"required"`
}

func (r *CreateConversationRequest) Validate() error {
	if strings.TrimSpace(r.InitialMessage) == "" {
		return &utils.ValidationError{Fields: []utils.FieldError{
			{Field: "initial_message", Reason: "must not be empty"},
		}}
	}
	return nil
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &utils.ValidationError{Fields: []utils.FieldError{
			{Field: "content", Reason: "must not be empty"},
		}}
	}
	return nil
}

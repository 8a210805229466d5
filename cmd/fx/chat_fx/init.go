package chat_fx

import (
	"go.uber.org/fx"

	"vamo/internal/planner"
	"vamo/internal/services"
)

var Module = fx.Provide(provideChatService)

func provideChatService(client planner.ClientInterface) services.ChatServiceInterface {
	return services.NewChatService(client)
}

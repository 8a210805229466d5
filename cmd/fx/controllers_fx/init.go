package controllers_fx

import (
	"go.uber.org/fx"

	"vamo/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewEditorController))

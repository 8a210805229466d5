package editor_fx

import (
	"go.uber.org/fx"

	"vamo/internal/services"
)

var Module = fx.Provide(provideEditorService)

func provideEditorService() services.EditorServiceInterface {
	return services.NewEditorService()
}

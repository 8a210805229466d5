package plans_fx

import (
	"go.uber.org/fx"

	"vamo/internal/planner"
	"vamo/internal/services"
)

var Module = fx.Provide(providePlanService)

func providePlanService(client planner.ClientInterface) services.PlanServiceInterface {
	return services.NewPlanService(client)
}

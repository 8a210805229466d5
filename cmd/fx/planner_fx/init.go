package planner_fx

import (
	"go.uber.org/fx"

	"vamo/internal/planner"
)

var Module = fx.Provide(providePlannerClient)

func providePlannerClient() planner.ClientInterface {
	return planner.NewClientFromEnv()
}

package analytics

import (
	"github.com/smitnayi/metamorph-inventory/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(service.New),
)

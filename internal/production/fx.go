package production

import (
	"github.com/smitnayi/metamorph-inventory/internal/production/repository"
	"github.com/smitnayi/metamorph-inventory/internal/production/service"
	"go.uber.org/fx"
)

var Module = fx.Module("production.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideLogRepository),
	fx.Provide(service.New),
)

package profile

import (
	"github.com/smitnayi/metamorph-inventory/internal/profile/repository"
	"github.com/smitnayi/metamorph-inventory/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.ProvideRepository),
	fx.Provide(service.New),
)

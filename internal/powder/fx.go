package powder

import (
	"github.com/smitnayi/metamorph-inventory/internal/powder/repository"
	"github.com/smitnayi/metamorph-inventory/internal/powder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("powder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package utility

import (
	"github.com/smitnayi/metamorph-inventory/internal/utility/repository"
	"github.com/smitnayi/metamorph-inventory/internal/utility/service"
	"go.uber.org/fx"
)

var Module = fx.Module("utility.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

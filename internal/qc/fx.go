package qc

import (
	"github.com/smitnayi/metamorph-inventory/internal/qc/repository"
	"github.com/smitnayi/metamorph-inventory/internal/qc/service"
	"go.uber.org/fx"
)

var Module = fx.Module("qc.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package auth

import (
	"github.com/smitnayi/metamorph-inventory/internal/auth/repository"
	"github.com/smitnayi/metamorph-inventory/internal/auth/service"
	"github.com/smitnayi/metamorph-inventory/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.ProvideUserRepository),
	fx.Provide(repository.ProvideSessionRepository),
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)

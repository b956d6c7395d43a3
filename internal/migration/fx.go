package migration

import (
	authdomain "github.com/smitnayi/metamorph-inventory/internal/auth/domain"
	"github.com/smitnayi/metamorph-inventory/internal/config"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	profiledomain "github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	"github.com/smitnayi/metamorph-inventory/internal/seed"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQLite and MySQL development databases derive the
			// schema from the models instead of the SQL migrations.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&profiledomain.UserProfile{},
				&powderdomain.Powder{},
				&productiondomain.Order{},
				&productiondomain.Log{},
				&qcdomain.Report{},
				&utilitydomain.UtilityData{},
				&utilitydomain.Consumption{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureAdminUser(conn); err != nil {
			return err
		}
		if cfg.SeedSampleData {
			return seed.EnsureSampleData(conn, cfg.Utility)
		}
		return nil
	}),
)

package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smitnayi/metamorph-inventory/internal/auth/domain"
	"github.com/smitnayi/metamorph-inventory/internal/auth/password"
	"github.com/smitnayi/metamorph-inventory/internal/config"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	profiledomain "github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin12345"
	defaultAdminEmail    = "admin@metamorph.local"
)

// EnsureAdminUser seeds the bootstrap admin account with its profile.
func EnsureAdminUser(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).
			Where("username = ?", defaultAdminUsername).
			First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := password.Hash(defaultAdminPassword)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			user = authdomain.User{
				ID:           node.Generate(),
				Username:     defaultAdminUsername,
				Email:        defaultAdminEmail,
				FirstName:    "Factory",
				LastName:     "Admin",
				PasswordHash: hashed,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}
		}

		var profile profiledomain.UserProfile
		err = tx.WithContext(ctx).
			Where("user_id = ?", user.ID).
			First(&profile).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			now := time.Now().UTC()
			profile = profiledomain.UserProfile{
				ID:        node.Generate(),
				UserID:    user.ID,
				Role:      profiledomain.RoleAdmin,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return tx.WithContext(ctx).Create(&profile).Error
		}
		return nil
	})
}

// EnsureSampleData seeds a small demo dataset for local environments:
// a handful of powders, production orders, QC reports, and today's
// utility rollup from the configured defaults. Idempotent.
func EnsureSampleData(db *gorm.DB, defaults config.UtilityDefaults) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSamplePowders(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSampleOrders(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSampleReports(ctx, tx, node); err != nil {
			return err
		}
		return ensureTodayRollup(ctx, tx, node, defaults)
	})
}

func ensureSamplePowders(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&powderdomain.Powder{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	powders := []powderdomain.Powder{
		{ID: node.Generate(), SKU: "PWD-RAL9016", Name: "Traffic White", Color: "RAL 9016", Brand: "Interpon", CurrentStock: 120, MinLevel: 40, PricePerKG: 8.5, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), SKU: "PWD-RAL9005", Name: "Jet Black", Color: "RAL 9005", Brand: "Interpon", CurrentStock: 42, MinLevel: 40, PricePerKG: 8.2, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), SKU: "PWD-RAL5010", Name: "Gentian Blue", Color: "RAL 5010", Brand: "Tiger", CurrentStock: 25, MinLevel: 30, PricePerKG: 9.1, CreatedAt: now, UpdatedAt: now},
	}
	return tx.WithContext(ctx).Create(&powders).Error
}

func ensureSampleOrders(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&productiondomain.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	due := now.AddDate(0, 0, 7)
	orders := []productiondomain.Order{
		{
			ID: node.Generate(), OrderID: "ORD-1001", ProductName: "Aluminium fence panels",
			Line: "A", Quantity: 200, DueDate: &due, Status: productiondomain.StatusCompleted,
			ElectricityUsed: 420, GasUsed: 55, WaterUsed: 80,
			CompletedAt: &yesterday, CreatedAt: yesterday, UpdatedAt: yesterday,
		},
		{
			ID: node.Generate(), OrderID: "ORD-1002", ProductName: "Steel brackets",
			Line: "B", Quantity: 500, DueDate: &due, Status: productiondomain.StatusInProgress,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: node.Generate(), OrderID: "ORD-1003", ProductName: "Radiator covers",
			Line: "A", Quantity: 150, DueDate: &due, Status: productiondomain.StatusPending,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	return tx.WithContext(ctx).Create(&orders).Error
}

func ensureSampleReports(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&qcdomain.Report{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	reports := []qcdomain.Report{
		{ID: node.Generate(), ReportID: "QC-2001", ProductName: "Aluminium fence panels", Inspector: "R. Patel", TestDate: now.AddDate(0, 0, -1), Result: qcdomain.ResultPassed, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), ReportID: "QC-2002", ProductName: "Steel brackets", Inspector: "R. Patel", TestDate: now, Result: qcdomain.ResultPending, CreatedAt: now, UpdatedAt: now},
	}
	return tx.WithContext(ctx).Create(&reports).Error
}

func ensureTodayRollup(ctx context.Context, tx *gorm.DB, node *snowflake.Node, defaults config.UtilityDefaults) error {
	today := utilitydomain.DayOf(time.Now().UTC())

	var count int64
	if err := tx.WithContext(ctx).
		Model(&utilitydomain.UtilityData{}).
		Where("date = ?", today).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	row := utilitydomain.UtilityData{
		ID:               node.Generate(),
		Date:             today,
		GasConsumption:   defaults.GasConsumption,
		ElectricityUsage: defaults.ElectricityUsage,
		WaterUsage:       defaults.WaterUsage,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return tx.WithContext(ctx).Create(&row).Error
}

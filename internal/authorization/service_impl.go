package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	profiledomain "github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectPowder     = "powder"
	ObjectProduction = "production"
	ObjectQC         = "qc_report"
	ObjectUtility    = "utility"
	ObjectAnalytics  = "analytics"
	ObjectDashboard  = "dashboard"
	ObjectUser       = "user"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionProductionTransition = "production.transition"

	ActionUtilitySubmit    = "utility.submit"
	ActionUtilityRecompute = "utility.recompute"
	ActionUtilityRepair    = "utility.repair"

	ActionUserManage = "user.manage"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Enforcer   *casbin.SyncedEnforcer
	ProfileSvc profiledomain.Service
}

type ServiceImpl struct {
	db         *gorm.DB
	log        *zap.Logger
	enforcer   *casbin.SyncedEnforcer
	profileSvc profiledomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:         p.DB,
		log:        p.Log.Named("authorization.service"),
		enforcer:   p.Enforcer,
		profileSvc: p.ProfileSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID snowflake.ID, object string, action string) error {
	if userID == 0 {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("user:%s", userID.String())
	roleName := fmt.Sprintf("role:%s", role)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) RoleOf(ctx context.Context, userID snowflake.ID) (string, error) {
	profile, err := s.profileSvc.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	role := strings.ToLower(strings.TrimSpace(profile.Role))
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

// ensureGrouping keeps the casbin grouping table consistent with the
// profile table. A user whose role changed gets the stale grouping rule
// removed before the fresh one is added.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	viewObjects := []string{
		ObjectPowder, ObjectProduction, ObjectQC,
		ObjectUtility, ObjectAnalytics, ObjectDashboard,
	}

	policies := [][]string{}

	// Every role can read the operational surfaces.
	for _, role := range []string{"admin", "manager", "operator", "qc", "viewer"} {
		for _, object := range viewObjects {
			policies = append(policies, []string{"role:" + role, object, ActionView})
		}
	}

	// Inventory writes stay with admin and manager.
	for _, role := range []string{"admin", "manager"} {
		policies = append(policies,
			[]string{"role:" + role, ObjectPowder, ActionCreate},
			[]string{"role:" + role, ObjectPowder, ActionUpdate},
			[]string{"role:" + role, ObjectPowder, ActionDelete},
		)
	}

	// Operators run the floor: orders, QC entries, utility readings.
	for _, role := range []string{"admin", "manager", "operator"} {
		policies = append(policies,
			[]string{"role:" + role, ObjectProduction, ActionCreate},
			[]string{"role:" + role, ObjectProduction, ActionUpdate},
			[]string{"role:" + role, ObjectProduction, ActionProductionTransition},
			[]string{"role:" + role, ObjectUtility, ActionUtilitySubmit},
		)
	}
	policies = append(policies,
		[]string{"role:admin", ObjectProduction, ActionDelete},
		[]string{"role:manager", ObjectProduction, ActionDelete},
	)

	// QC inspectors write reports alongside operators.
	for _, role := range []string{"admin", "manager", "qc", "operator"} {
		policies = append(policies,
			[]string{"role:" + role, ObjectQC, ActionCreate},
			[]string{"role:" + role, ObjectQC, ActionUpdate},
		)
	}
	policies = append(policies,
		[]string{"role:admin", ObjectQC, ActionDelete},
		[]string{"role:manager", ObjectQC, ActionDelete},
	)

	// Recompute is a management operation; duplicate repair is admin-only.
	policies = append(policies,
		[]string{"role:admin", ObjectUtility, ActionUtilityRecompute},
		[]string{"role:manager", ObjectUtility, ActionUtilityRecompute},
		[]string{"role:admin", ObjectUtility, ActionUtilityRepair},
	)

	// Account administration.
	policies = append(policies,
		[]string{"role:admin", ObjectUser, ActionView},
		[]string{"role:admin", ObjectUser, ActionUserManage},
	)

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

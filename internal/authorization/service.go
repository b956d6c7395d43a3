package authorization

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service decides whether an authenticated user may perform an action
// on an object. Roles come from user profiles and are mapped to casbin
// grouping rules on first use.
type Service interface {
	Authorize(ctx context.Context, userID snowflake.ID, object string, action string) error
	RoleOf(ctx context.Context, userID snowflake.ID) (string, error)
}

package cont

import (
	"SchoolLicensing/entity"
	"context"
)

type ctxKey int

const userKey ctxKey = iota

func PutUser(ctx context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the operator stored by the authenticate middleware or nil.
func GetUser(ctx context.Context) *entity.UserAuth {
	user, ok := ctx.Value(userKey).(*entity.UserAuth)
	if !ok {
		return nil
	}
	return user
}

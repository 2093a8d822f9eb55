package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	key, err := env.core.GenerateApiKey(ctx, "ops")
	require.NoError(t, err)
	again, err := env.core.GenerateApiKey(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, key, again)

	user, err := env.core.AuthenticateByToken(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "ops", user.Username)

	_, err = env.core.AuthenticateByToken(ctx, "bogus")
	assert.Error(t, err)

	_, err = env.core.GenerateApiKey(ctx, "")
	assert.Error(t, err)
}

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"admin_email" validate:"required,email"`
	Count int    `json:"count" validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(&sample{Email: "a@b.com", Count: 1}))

	err := Struct(&sample{Email: "nope"})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"admin_email", "count"}, Fields(err))
	assert.Contains(t, Message(err), "admin_email must be a valid email")
}

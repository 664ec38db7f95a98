package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, RoleReseller)
	require.NoError(t, err)

	userID, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, RoleReseller, role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, _, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, _, err = ValidateToken(token[:len(token)-2] + "xx")
	assert.Error(t, err)
}

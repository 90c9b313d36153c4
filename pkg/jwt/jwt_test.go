package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, "staff@kvtjewellers.com", "Store Staff", "STAFF", []string{"price:view"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "staff@kvtjewellers.com", claims.Email)
	assert.Equal(t, "STAFF", claims.RoleCode)
	assert.Equal(t, []string{"price:view"}, claims.Privileges)
	assert.Equal(t, "kvt-storefront", claims.Issuer)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "staff@kvtjewellers.com", "Store Staff", "STAFF", nil)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

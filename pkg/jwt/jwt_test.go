package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/procurement-allocation/pkg/jwt"
)

func TestJWT_GenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "user-1", pkgjwt.RoleBodeguero, "procurement-allocation", 60)
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, pkgjwt.RoleBodeguero, role)
}

func TestJWT_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "user-1", pkgjwt.RoleAdmin, "x", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestJWT_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "user-1", pkgjwt.RoleAdmin, "x", -5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", pkgjwt.RoleAdmin, "x", 60)
	assert.Error(t, err)
	_, _, err = pkgjwt.Parse("", "a.b.c")
	assert.Error(t, err)
}

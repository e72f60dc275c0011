package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testUser() *domain.User {
	return &domain.User{
		ID:    7,
		Email: "jane@example.com",
		Roles: []domain.Role{
			{ID: 1, Name: domain.RoleStaff},
			{ID: 2, Name: domain.RoleAdmin},
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTTokenService("test-secret", "autopart-inventory", time.Hour, nopLogger{})

	token, err := svc.CreateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), payload.UserID)
	assert.Equal(t, "jane@example.com", payload.Email)
	assert.True(t, payload.HasRole(domain.RoleStaff))
	assert.True(t, payload.HasRole(domain.RoleAdmin))
	assert.False(t, payload.HasRole("superuser"))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTTokenService("secret-a", "autopart-inventory", time.Hour, nopLogger{})
	verifier := NewJWTTokenService("secret-b", "autopart-inventory", time.Hour, nopLogger{})

	token, err := issuer.CreateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewJWTTokenService("test-secret", "autopart-inventory", -time.Minute, nopLogger{})

	token, err := svc.CreateToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret", "autopart-inventory", time.Hour, nopLogger{})

	_, err := svc.VerifyToken("not.a.token")
	assert.Error(t, err)
}

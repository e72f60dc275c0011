package services

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

func newUserServiceFixture(roles map[string]domain.Role) (*UserService, *memUserRepo, *memAudit) {
	userRepo := newMemUserRepo()
	roleRepo := &memRoleRepo{roles: roles}
	audit := &memAudit{}
	svc := NewUserService(userRepo, roleRepo, NewPBKDF2Hasher(), stubTokenService{}, audit, nopLogger{}, validator.New())
	return svc, userRepo, audit
}

func defaultRoles() map[string]domain.Role {
	return map[string]domain.Role{
		domain.RoleStaff: {ID: 1, Name: domain.RoleStaff},
		domain.RoleAdmin: {ID: 2, Name: domain.RoleAdmin},
	}
}

func TestSignupAssignsStaffRole(t *testing.T) {
	svc, userRepo, audit := newUserServiceFixture(defaultRoles())

	ok, err := svc.Signup(context.Background(), SignupInput{
		Email:     "jane@example.com",
		Password:  "s3cretpass",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.True(t, ok)

	user, err := userRepo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, user.HasRole(domain.RoleStaff))
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.ActionCreated, audit.entries[0].Action)
	assert.Equal(t, domain.EntityUser, audit.entries[0].EntityType)
}

func TestSignupDuplicateEmailRejectedWithoutAudit(t *testing.T) {
	svc, _, audit := newUserServiceFixture(defaultRoles())

	in := SignupInput{Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe"}
	ok, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Signup(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, ok)

	// Only the first signup produced an audit entry.
	assert.Len(t, audit.entries, 1)
}

func TestSignupToleratesMissingStaffRole(t *testing.T) {
	svc, userRepo, _ := newUserServiceFixture(map[string]domain.Role{})

	ok, err := svc.Signup(context.Background(), SignupInput{
		Email:     "jane@example.com",
		Password:  "s3cretpass",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.True(t, ok)

	user, err := userRepo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.Roles)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, _ := newUserServiceFixture(defaultRoles())

	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "jane@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newUserServiceFixture(defaultRoles())

	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	// Unknown account and wrong password both come back as ("", nil).
	token, err := svc.Login(context.Background(), "nobody@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = svc.Login(context.Background(), "jane@example.com", "wrongpassword")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestPromoteToAdmin(t *testing.T) {
	svc, userRepo, audit := newUserServiceFixture(defaultRoles())

	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	user, err := userRepo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	ok, err := svc.PromoteToAdmin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	promoted, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, promoted.Roles, 2)

	last := audit.entries[len(audit.entries)-1]
	assert.Equal(t, domain.ActionPromoted, last.Action)
}

func TestPromoteUnknownUserReturnsFalse(t *testing.T) {
	svc, _, _ := newUserServiceFixture(defaultRoles())

	ok, err := svc.PromoteToAdmin(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromoteMissingAdminRoleIsError(t *testing.T) {
	svc, userRepo, _ := newUserServiceFixture(map[string]domain.Role{
		domain.RoleStaff: {ID: 1, Name: domain.RoleStaff},
	})

	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	user, err := userRepo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	ok, err := svc.PromoteToAdmin(context.Background(), user.ID)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestPromoteIsIdempotentForAdmins(t *testing.T) {
	svc, userRepo, audit := newUserServiceFixture(defaultRoles())

	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	user, err := userRepo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	ok, err := svc.PromoteToAdmin(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, ok)
	auditsAfterFirst := len(audit.entries)

	ok, err = svc.PromoteToAdmin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// The repeat promote neither assigns again nor audits.
	again, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, again.Roles, 2)
	assert.Len(t, audit.entries, auditsAfterFirst)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc, userRepo, _ := newUserServiceFixture(defaultRoles())

	for _, email := range []string{"jane@example.com", "john@example.com"} {
		_, err := svc.Signup(context.Background(), SignupInput{
			Email: email, Password: "s3cretpass", FirstName: "A", LastName: "B",
		})
		require.NoError(t, err)
	}
	john, err := userRepo.GetByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)

	result, err := svc.Update(context.Background(), UpdateUserInput{
		ID: john.ID, Email: "jane@example.com", Password: "s3cretpass", FirstName: "John", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateUserEmailExists, result)

	// Keeping his own email is not a conflict.
	result, err = svc.Update(context.Background(), UpdateUserInput{
		ID: john.ID, Email: "john@example.com", Password: "newsecret99", FirstName: "John", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateUserSuccess, result)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _, _ := newUserServiceFixture(defaultRoles())

	result, err := svc.Update(context.Background(), UpdateUserInput{
		ID: 42, Email: "a@example.com", Password: "s3cretpass", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateUserNotFound, result)
}

func TestAuditFailureDoesNotFailSignup(t *testing.T) {
	svc, _, audit := newUserServiceFixture(defaultRoles())
	audit.failAppend = true

	ok, err := svc.Signup(context.Background(), SignupInput{
		Email: "jane@example.com", Password: "s3cretpass", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

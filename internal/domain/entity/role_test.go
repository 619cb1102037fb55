package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleModerator.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("root").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("moderator")
	assert.True(t, ok)
	assert.Equal(t, RoleModerator, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestRoleRequirement_Allows(t *testing.T) {
	tests := []struct {
		name        string
		requirement RoleRequirement
		role        Role
		want        bool
	}{
		{"user can read", RequireAnyRole, RoleUser, true},
		{"moderator can read", RequireAnyRole, RoleModerator, true},
		{"admin can read", RequireAnyRole, RoleAdmin, true},
		{"user cannot update", RequireModerator, RoleUser, false},
		{"moderator can update", RequireModerator, RoleModerator, true},
		{"admin can update", RequireModerator, RoleAdmin, true},
		{"user cannot delete", RequireAdmin, RoleUser, false},
		{"moderator cannot delete", RequireAdmin, RoleModerator, false},
		{"admin can delete", RequireAdmin, RoleAdmin, true},
		{"empty requirement denies everyone", RoleRequirement{}, RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.requirement.Allows(tt.role))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestAccount_Sanitized(t *testing.T) {
	token := "serialized.refresh.token"
	account := &Account{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$secret",
		RefreshToken: &token,
	}

	sanitized := account.Sanitized()

	assert.Empty(t, sanitized.PasswordHash)
	assert.Nil(t, sanitized.RefreshToken)
	// The original must stay untouched.
	assert.NotEmpty(t, account.PasswordHash)
	assert.NotNil(t, account.RefreshToken)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleOwner.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestCanManageNotifications(t *testing.T) {
	assert.True(t, CanManageNotifications(RoleAdmin))
	assert.True(t, CanManageNotifications(RoleOwner))
	assert.False(t, CanManageNotifications(RoleUser))
	assert.False(t, CanManageNotifications(Role("")))
}

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr error
	}{
		{in: "student", want: RoleStudent},
		{in: " Teacher ", want: RoleTeacher},
		{in: "ADMIN", want: RoleAdmin},
		{in: "system", want: RoleSystem},
		{in: "", wantErr: errInvalidRole},
		{in: "principal", wantErr: errInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Priority(t *testing.T) {
	assert.Greater(t, RoleSystem.Priority(), RoleAdmin.Priority())
	assert.Greater(t, RoleAdmin.Priority(), RoleTeacher.Priority())
	assert.Greater(t, RoleTeacher.Priority(), RoleStudent.Priority())
	assert.Greater(t, RoleStudent.Priority(), Role("lol").Priority())
}

func TestUser_Password(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cr3t!x"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	assert.NotEqual(t, []byte("s3cr3t!x"), usr.PasswordHash)
	assert.NoError(t, usr.CheckPassword("s3cr3t!x"))
	assert.Error(t, usr.CheckPassword("S3cr3t!x"))
}

func TestIdentity(t *testing.T) {
	usr := User{ID: "1", Username: "jane", Role: RoleTeacher}
	id := usr.Identity()

	assert.Equal(t, Identity{ID: "1", Username: "jane", Role: RoleTeacher}, id)
	assert.False(t, id.IsSystem())
	assert.True(t, SystemIdentity.IsSystem())
	assert.True(t, id.HasAnyRole(RoleAdmin, RoleTeacher))
	assert.False(t, id.HasAnyRole(RoleAdmin, RoleSystem))
	assert.False(t, id.HasAnyRole())

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	got, ok := FromContext(NewContext(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

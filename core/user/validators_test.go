package user

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/englishpoc/core"
)

// stubUniqueness reports every username in taken as already used.
type stubUniqueness struct {
	ServiceInterface
	taken []string
}

func (s stubUniqueness) CheckUniqueness(_ context.Context, uname string, exclUsers ...User) error {
	for _, u := range s.taken {
		if u == uname {
			return ErrUsernameExists
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func fieldTags(err error) map[string]string {
	tags := make(map[string]string)
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range vErrs {
			tags[e.Field()] = e.Tag()
		}
	}
	return tags
}

func TestNewUser_Validate(t *testing.T) {
	validate := newValidator()
	svc := stubUniqueness{taken: []string{"taken"}}

	tests := []struct {
		name     string
		nu       NewUser
		wantTags map[string]string
		wantErr  error
		wantRole Role
	}{
		{name: "required", nu: NewUser{}, wantTags: map[string]string{"username": "required", "password": "required"}},
		{name: "blank username", nu: NewUser{Username: "   ", Password: "s3cr3t!x"}, wantTags: map[string]string{"username": "required"}},
		{name: "short password", nu: NewUser{Username: "jane", Password: "abcd"}, wantTags: map[string]string{"password": pwdMinLenTag}},
		{name: "short multibyte password", nu: NewUser{Username: "jane", Password: "éééé"}, wantTags: map[string]string{"password": pwdMinLenTag}},
		{name: "password like username", nu: NewUser{Username: "johndoe", Password: "JohnDoe1"}, wantTags: map[string]string{"password": pwdAttrSimTag}},
		{name: "invalid role", nu: NewUser{Username: "jane", Password: "s3cr3t!x", Role: "king"}, wantTags: map[string]string{"role": roleTag}},
		{name: "taken username", nu: NewUser{Username: " Taken ", Password: "s3cr3t!x"}, wantErr: ErrUsernameExists},
		{name: "default role", nu: NewUser{Username: "jane", Password: "s3cr3t!x"}, wantRole: RoleStudent},
		{name: "role is cleaned", nu: NewUser{Username: "jane", Password: "s3cr3t!x", Role: " Teacher "}, wantRole: RoleTeacher},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(context.Background(), validate, svc)
			switch {
			case tt.wantTags != nil:
				assert.Equal(t, tt.wantTags, fieldTags(err))
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRole, tt.nu.Role)
			}
		})
	}
}

func TestUpdateUser_Validate(t *testing.T) {
	validate := newValidator()
	svc := stubUniqueness{taken: []string{"taken"}}
	orig := User{ID: "1", Username: "jane", Role: RoleStudent}
	sPtr := func(s string) *string { return &s }
	rPtr := func(r Role) *Role { return &r }

	tests := []struct {
		name     string
		uu       UpdateUser
		wantTags map[string]string
		wantErr  error
	}{
		{name: "nothing to update", uu: UpdateUser{}},
		{name: "blank username", uu: UpdateUser{Username: sPtr(" ")}, wantTags: map[string]string{"username": "notblank"}},
		{name: "same username", uu: UpdateUser{Username: sPtr("JANE")}},
		{name: "taken username", uu: UpdateUser{Username: sPtr("taken")}, wantErr: ErrUsernameExists},
		{name: "short password", uu: UpdateUser{Password: sPtr("abc")}, wantTags: map[string]string{"password": pwdMinLenTag}},
		{name: "password like new username", uu: UpdateUser{Username: sPtr("johndoe"), Password: sPtr("johndoe1")}, wantTags: map[string]string{"password": pwdAttrSimTag}},
		{name: "invalid role", uu: UpdateUser{Role: rPtr("king")}, wantTags: map[string]string{"role": roleTag}},
		{name: "valid role", uu: UpdateUser{Role: rPtr(" ADMIN ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.uu.Validate(context.Background(), orig, validate, svc)
			switch {
			case tt.wantTags != nil:
				assert.Equal(t, tt.wantTags, fieldTags(err))
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

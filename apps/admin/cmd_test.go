package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
	inmemdb "github.com/trezcool/englishpoc/storage/database/inmem"
	"github.com/trezcool/englishpoc/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := inmemdb.Open()
	t.Cleanup(func() { _ = db.Close() })
	usrRepo = inmemdb.NewUserRepository(db)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		usrSvc:   user.NewService(usrRepo),
		validate: validate,
		out:      out,
		ensureIndexes: func(context.Context) ([]string, error) {
			return []string{"users.username_1", "grammarLessons.slug_1"}, nil
		},
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, cli *commandLine) error {
	t.Helper()
	err := cli.run(append([]string{"admin"}, tt.args...))
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, errors.Cause(err))
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), tt.wantErrStr)
		}
	default:
		assert.NoError(t, err)
	}
	return err
}

func mockPassword(pwd string) {
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "jane", "old-secret", user.RoleStudent)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp, extra: extra{pwd: "new-secret"}},
		{name: "empty password", args: []string{"resetpassword", "-username", "jane"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"resetpassword", "-username", "lol"}, wantErr: user.ErrNotFound, extra: extra{pwd: "new-secret"}},
		{name: "password too short", args: []string{"resetpassword", "-username", "jane"}, wantErrStr: "pwdminlen", extra: extra{pwd: "abc"}},
		{name: "password too similar", args: []string{"resetpassword", "-username", "jane"}, wantErrStr: "pwdtoosim", extra: extra{pwd: "janej"}},
		{name: "reset", args: []string{"resetpassword", "-username", "JANE"}, extra: extra{pwd: "new-secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pwd string
			if ex, ok := tt.extra.(extra); ok {
				pwd = ex.pwd
			}
			mockPassword(pwd)
			tt.check(t, cli)
		})
	}

	got, err := usrRepo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword("new-secret"))
}

func Test_commandLine_setupAdmin(t *testing.T) {
	cli, out := setup(t)
	testutil.CreateUser(t, usrRepo, "jane", "", user.RoleTeacher)
	testutil.CreateUser(t, usrRepo, "bob", "", user.RoleStudent)

	tests := []cliTest{
		{name: "no args", args: []string{"setupadmin"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"setupadmin", "-username", "lol"}, wantErr: user.ErrNotFound},
		{name: "promoted", args: []string{"setupadmin", "-username", "jane"}},
		{name: "admin exists", args: []string{"setupadmin", "-username", "bob"}, wantErr: errAdminExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli)
		})
	}

	assert.Contains(t, out.String(), "jane is now an admin")
	jane, err := usrRepo.GetUserByUsername(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, jane.Role)
	bob, err := usrRepo.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, bob.Role)
}

func Test_commandLine_listUsers(t *testing.T) {
	cli, out := setup(t)
	now := time.Now().UTC()
	testutil.CreateUser(t, usrRepo, "old", "", user.RoleAdmin, now.AddDate(0, 0, -2))
	testutil.CreateUser(t, usrRepo, "new", "", user.RoleStudent, now)

	cliTest{args: []string{"listusers"}}.check(t, cli)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "USERNAME"))
	assert.True(t, strings.HasPrefix(lines[1], "new "))
	assert.Contains(t, lines[1], "student")
	assert.True(t, strings.HasPrefix(lines[2], "old "))
	assert.Contains(t, lines[2], "admin")
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "jane", "old-secret", user.RoleStudent)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp, extra: extra{pwd: "secret"}},
		{name: "invalid role", args: []string{"adduser", "-username", "bob", "-role", "lol"}, wantErrStr: "invalid role", extra: extra{pwd: "secret"}},
		{name: "empty password", args: []string{"adduser", "-username", "bob"}, wantErr: errHelp},
		{name: "password too short", args: []string{"adduser", "-username", "bob"}, wantErrStr: "pwdminlen", extra: extra{pwd: "abc"}},
		{name: "create", args: []string{"adduser", "-username", " Bob ", "-role", "teacher"}, extra: extra{pwd: "bob-secret"}},
		{name: "update", args: []string{"adduser", "-username", "jane", "-role", "system"}, extra: extra{pwd: "new-secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pwd string
			if ex, ok := tt.extra.(extra); ok {
				pwd = ex.pwd
			}
			mockPassword(pwd)
			tt.check(t, cli)
		})
	}

	ctx := context.Background()
	bob, err := usrRepo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, bob.Role)
	assert.NoError(t, bob.CheckPassword("bob-secret"))

	jane, err := usrRepo.GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, user.RoleSystem, jane.Role)
	assert.NoError(t, jane.CheckPassword("new-secret"))
}

func Test_commandLine_ensureIndexes(t *testing.T) {
	cli, out := setup(t)

	cliTest{args: []string{"ensureindexes"}}.check(t, cli)
	assert.Equal(t, "users.username_1\ngrammarLessons.slug_1\n", out.String())

	errFailed := errors.New("server selection timeout")
	cli.ensureIndexes = func(context.Context) ([]string, error) { return nil, errFailed }
	cliTest{args: []string{"ensureindexes"}, wantErr: errFailed}.check(t, cli)
}

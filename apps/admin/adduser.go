package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(ctx context.Context, uname, pwd string, role user.Role) error {
	uname = core.CleanString(uname, true /* lower */)

	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{Username: uname, Password: pwd, Role: role}
		if err = nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, nu)
		return err
	}

	uu := user.UpdateUser{Username: &uname, Password: &pwd, Role: &role}
	if err = uu.Validate(ctx, usr, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(ctx, usr.ID, uu)
	return err
}

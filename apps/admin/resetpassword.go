package main

import (
	"context"

	"github.com/trezcool/englishpoc/core/user"
)

// resetPassword sets a new password, following the same policy as the API.
func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}
	uname = usr.Username
	uu := user.UpdateUser{Username: &uname, Password: &pwd}
	if err = uu.Validate(ctx, usr, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(ctx, usr.Username, pwd)
	return err
}

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/trezcool/englishpoc/core/user"
)

// setupAdmin promotes uname to admin; it refuses to run once any admin exists.
func (cli *commandLine) setupAdmin(ctx context.Context, uname string) error {
	exists, err := cli.usrSvc.HasRole(ctx, user.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return errAdminExists
	}
	usr, err := cli.usrSvc.Promote(ctx, uname, user.RoleAdmin)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s is now an admin\n", usr.Username)
	return nil
}

func (cli *commandLine) listUsers(ctx context.Context) error {
	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tROLE\tCREATED")
	for _, usr := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", usr.Username, usr.Role, usr.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/englishpoc/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errAdminExists = errors.New("an admin already exists")
)

type commandLine struct {
	usrSvc   user.ServiceInterface
	validate *validator.Validate
	out      io.Writer

	// ensureIndexes creates the document store indexes and returns their names.
	ensureIndexes func(ctx context.Context) ([]string, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME       - reset user's password")
	fmt.Fprintln(cli.out, "  setupadmin -username USERNAME          - promote a user to admin, unless an admin exists")
	fmt.Fprintln(cli.out, "  listusers                              - list all users, newest first")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME [-role ROLE] - create or update a user")
	fmt.Fprintln(cli.out, "  ensureindexes                          - create the database indexes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	setupAdminCmd := flag.NewFlagSet("setupadmin", flag.ContinueOnError)
	setupAdminUname := setupAdminCmd.String("username", "", "The username of the user to promote.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleStudent.String(), "The user's role: student, teacher, admin or system.")

	for _, cmd := range []*flag.FlagSet{resetPasswordCmd, setupAdminCmd, addUserCmd} {
		cmd.SetOutput(cli.out)
	}

	switch args[1] {
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordUname, pwd)

	case "setupadmin":
		if err := setupAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setupAdminUname == "" {
			setupAdminCmd.Usage()
			return errHelp
		}
		return cli.setupAdmin(ctx, *setupAdminUname)

	case "listusers":
		return cli.listUsers(ctx)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		role, err := user.ParseRole(*addUserRole)
		if err != nil {
			return err
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, *addUserUname, pwd, role)

	case "ensureindexes":
		names, err := cli.ensureIndexes(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cli.out, name)
		}
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

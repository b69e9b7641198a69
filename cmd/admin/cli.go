package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword

	errHelp = errors.New("help provided")
)

type commandLine struct {
	seeder     service.SeedService
	importer   service.ImportService
	accounts   service.AccountService
	adminEmail string
	adminPass  string
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed [-staff-password PASSWORD]                    - create the admin account and fee catalog")
	fmt.Fprintln(cli.out, "  import -kind students|hostel|academic|legacy FILE - import a CSV export")
	fmt.Fprintln(cli.out, "  createstaff -email EMAIL -department DEPT [-admin] - create a staff login; the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -login ROLL|EMAIL                    - reset a user's password; the password is prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "seed":
		return cli.seed(ctx, args[2:])
	case "import":
		return cli.importFile(ctx, args[2:])
	case "createstaff":
		return cli.createStaff(ctx, args[2:])
	case "resetpassword":
		return cli.resetPassword(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) seed(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	staffPassword := cmd.String("staff-password", "", "Create one sample staff account per department with this password.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	report, err := cli.seeder.Seed(ctx, service.SeedOptions{
		AdminEmail:    cli.adminEmail,
		AdminPassword: cli.adminPass,
		StaffPassword: *staffPassword,
	})
	if err != nil {
		return err
	}
	return cli.print(report)
}

func (cli *commandLine) importFile(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("import", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	kind := cmd.String("kind", "", "One of students, hostel, academic or legacy.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *kind == "" || cmd.NArg() != 1 {
		cmd.Usage()
		return errHelp
	}

	file, err := os.Open(cmd.Arg(0))
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	// The CLI runs with operator rights, so imports act as an administrator.
	operator := auth.Principal{Role: models.RoleAdmin}
	report, err := cli.importer.Import(ctx, operator, strings.ToLower(*kind), file)
	if err != nil {
		return err
	}
	return cli.print(report)
}

func (cli *commandLine) createStaff(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("createstaff", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "Login email of the staff member.")
	department := cmd.String("department", "", "Owning department: accounts, hostel, library, lab or sports.")
	firstName := cmd.String("first-name", "", "")
	lastName := cmd.String("last-name", "", "")
	designation := cmd.String("designation", "", "")
	admin := cmd.Bool("admin", false, "Grant administrator rights.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" || *department == "" {
		cmd.Usage()
		return errHelp
	}

	password, err := cli.promptPassword()
	if err != nil {
		return err
	}

	user, err := cli.accounts.CreateStaff(ctx, dto.StaffAccountRequest{
		Email:       *email,
		Password:    password,
		FirstName:   *firstName,
		LastName:    *lastName,
		Department:  *department,
		Designation: *designation,
		Admin:       *admin,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created staff user %d (%s)\n", user.ID, user.Login)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	login := cmd.String("login", "", "The user's roll number or email. The password will be prompted next.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *login == "" {
		cmd.Usage()
		return errHelp
	}

	password, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if err := cli.accounts.ResetPassword(ctx, *login, password); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "password updated")
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) print(value interface{}) error {
	encoder := json.NewEncoder(cli.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

package adminuser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// DefaultName is offered when the operator leaves the name blank
const DefaultName = "Admin"

// ErrFailed is returned once the failure has been reported to the operator
var ErrFailed = errors.New("admin user was not created")

// Options are the values passed on the command line
type Options struct {
	Email         string
	Password      string
	Name          string
	Phone         string
	NoInteraction bool
}

// Command walks the operator through creating an administrator
type Command struct {
	store   Store
	creator *Creator
	prompt  Prompter
	out     io.Writer

	info  *color.Color
	warn  *color.Color
	fail  *color.Color
	title *color.Color
}

// NewCommand writes its report to out and asks missing values through prompt
func NewCommand(store Store, creator *Creator, prompt Prompter, out io.Writer) *Command {
	return &Command{
		store:   store,
		creator: creator,
		prompt:  prompt,
		out:     out,
		info:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		title:   color.New(color.FgCyan, color.Bold),
	}
}

// Run returns ErrFailed for anything the operator has to fix and already saw
// explained; other errors are unexpected.
func (c *Command) Run(ctx context.Context, opts Options) error {
	c.info.Fprintln(c.out, "Creating Admin User...")

	email, err := c.value(opts.Email, opts.NoInteraction, func() (string, error) {
		return c.prompt.Ask("Email", "")
	})
	if err != nil {
		return err
	}

	if err := ValidateEmail(ctx, c.store, email); err != nil {
		verrs, ok := IsValidationError(err)
		if !ok {
			return err
		}

		c.fail.Fprintln(c.out, "Validation failed:")
		for _, msg := range verrs {
			c.fail.Fprintf(c.out, "  - %s\n", msg)
		}

		return ErrFailed
	}

	password, err := c.value(opts.Password, opts.NoInteraction, func() (string, error) {
		return c.prompt.Secret("Password")
	})
	if err != nil {
		return err
	}

	if err := ValidatePassword(password); err != nil {
		c.fail.Fprintf(c.out, "Password must be at least %d characters long.\n", MinPasswordLength)
		return ErrFailed
	}

	name, err := c.valueOr(opts.Name, DefaultName, opts.NoInteraction, func() (string, error) {
		return c.prompt.Ask("Name", DefaultName)
	})
	if err != nil {
		return err
	}

	phone, err := c.value(opts.Phone, opts.NoInteraction, func() (string, error) {
		return c.prompt.Ask("Phone (optional)", "")
	})
	if err != nil {
		return err
	}

	user, err := c.creator.Create(ctx, Input{
		Email:    email,
		Password: password,
		Name:     name,
		Phone:    phone,
	})
	if err != nil {
		c.fail.Fprintf(c.out, "Failed to create admin user: %v\n", err)
		return ErrFailed
	}

	c.report(user, opts.Password != "")

	return nil
}

func (c *Command) value(given string, noInteraction bool, ask func() (string, error)) (string, error) {
	return c.valueOr(given, "", noInteraction, ask)
}

func (c *Command) valueOr(given, fallback string, noInteraction bool, ask func() (string, error)) (string, error) {
	if given != "" {
		return given, nil
	}

	if noInteraction {
		return fallback, nil
	}

	answer, err := ask()
	if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}

	return answer, nil
}

func (c *Command) report(user *User, passwordFromFlag bool) {
	c.title.Fprintln(c.out, "✓ Admin user created successfully!")

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"ID", strconv.FormatUint(user.ID, 10)},
		{"Name", user.DisplayName()},
		{"Email", user.Email},
		{"User Type", user.UserType},
		{"Role ID", strconv.FormatUint(uint64(user.RoleID), 10)},
	})
	table.Render()

	c.warn.Fprintln(c.out, "Please save these credentials securely!")
	c.info.Fprintf(c.out, "Email: %s\n", user.Email)

	if passwordFromFlag {
		c.info.Fprintln(c.out, "Password: ***")
	} else {
		c.info.Fprintln(c.out, "Password: [the password you entered]")
	}
}

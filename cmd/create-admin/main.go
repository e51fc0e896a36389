package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/learnhub/devserver/internal/adminuser"
)

const (
	exitOK     = 0
	exitFailed = 1
)

type flags struct {
	envFile string
	opts    adminuser.Options
}

func parseFlags(args []string, output io.Writer) (*flags, error) {
	f := &flags{}

	set := flag.NewFlagSetWithEnvPrefix("create-admin", "CREATE_ADMIN", flag.ContinueOnError)
	set.SetOutput(output)
	set.StringVar(&f.envFile, "env-file", ".env", "File with DB_* settings loaded into the environment, if present")
	set.StringVar(&f.opts.Email, "email", "", "Admin email address")
	set.StringVar(&f.opts.Password, "password", "", "Admin password")
	set.StringVar(&f.opts.Name, "name", "", "Admin name")
	set.StringVar(&f.opts.Phone, "phone", "", "Admin phone number")
	set.BoolVar(&f.opts.NoInteraction, "no-interaction", false, "Do not ask for missing values")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func run(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) int {
	f, err := parseFlags(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitFailed
	}

	if err := loadEnvFile(f.envFile); err != nil {
		log.WithError(err).WithField("env_file", f.envFile).Error("could not load environment file")
		return exitFailed
	}

	dsn, err := adminuser.DatabaseConfigFromEnv(os.Getenv).DSN()
	if err != nil {
		log.WithError(err).Error("invalid database configuration")
		return exitFailed
	}

	store, err := adminuser.Open(dsn)
	if err != nil {
		log.WithError(err).Error("could not open database")
		return exitFailed
	}
	defer store.Close()

	cmd := adminuser.NewCommand(
		store,
		adminuser.NewCreator(store),
		adminuser.NewTerminalPrompter(stdin, stdout),
		stdout,
	)

	if err := cmd.Run(ctx, f.opts); err != nil {
		if !errors.Is(err, adminuser.ErrFailed) {
			log.WithError(err).Error("could not create admin user")
		}

		return exitFailed
	}

	return exitOK
}

func main() {
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()

	os.Exit(code)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	cfg "gitlab.com/learnhub/devserver/internal/config"
	"gitlab.com/learnhub/devserver/internal/errortracking"
	"gitlab.com/learnhub/devserver/internal/logging"
	"gitlab.com/learnhub/devserver/internal/static"
	"gitlab.com/learnhub/devserver/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func initErrorReporting(sentryDSN, sentryEnvironment string) {
	if err := errortracking.Initialize(sentryDSN, sentryEnvironment, VERSION); err != nil {
		log.WithError(err).Warn("failed to initialize error tracking")
	}
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func appMain() {
	config, err := cfg.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(config.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(config.Log.Format, config.Log.Verbose); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	if config.Sentry.DSN != "" {
		initErrorReporting(config.Sentry.DSN, config.Sentry.Environment)
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("Learnhub development server")

	cfg.LogConfig(config)

	if err := static.LoadMIMETypes(); err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		log.WithError(err).Fatal("Failed to load MIME types")
	}

	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runApp(ctx, config); err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		log.WithError(err).Fatal("could not run the development server")
	}
}

func main() {
	log.SetOutput(os.Stderr)

	appMain()
}

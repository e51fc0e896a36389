package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	ghandlers "github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"

	cfg "gitlab.com/learnhub/devserver/internal/config"
	"gitlab.com/learnhub/devserver/internal/customheaders"
	"gitlab.com/learnhub/devserver/internal/dispatch"
	"gitlab.com/learnhub/devserver/internal/docroot"
	"gitlab.com/learnhub/devserver/internal/frontcontroller"
	"gitlab.com/learnhub/devserver/internal/handlers"
	"gitlab.com/learnhub/devserver/internal/healthcheck"
	"gitlab.com/learnhub/devserver/internal/logging"
	"gitlab.com/learnhub/devserver/internal/rejectmethods"
	"gitlab.com/learnhub/devserver/internal/static"
	"gitlab.com/learnhub/devserver/internal/urilimiter"
)

// labkit registers the collectors when the factory is created
var httpMetrics = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("devserver"))

type theApp struct {
	config        *cfg.Config
	dispatcher    http.Handler
	customHeaders http.Header
}

func newApp(config *cfg.Config) (*theApp, error) {
	root, err := docroot.New(config.Dispatch.DocumentRoot, config.Dispatch.FollowSymlinks)
	if err != nil {
		return nil, err
	}

	upstream, err := url.Parse(config.App.Upstream)
	if err != nil {
		return nil, fmt.Errorf("parsing app-upstream: %w", err)
	}

	customHeaders, err := customheaders.ParseHeaderString(config.General.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("parsing custom headers: %w", err)
	}

	d := dispatch.New(root, dispatch.Config{
		AdminPrefix:      config.Dispatch.AdminPrefix,
		StaticExtensions: dispatch.NewExtensionSet(config.Dispatch.StaticExtensions),
	})

	return &theApp{
		config: config,
		dispatcher: dispatch.NewHandler(
			d,
			static.New(root, config.Dispatch.StaticMaxAge),
			frontcontroller.New(upstream, config.App.Timeout),
		),
		customHeaders: customHeaders,
	}, nil
}

// buildHandlerPipeline returns a handler that is the result of chaining
// the middlewares around the dispatcher. Middlewares are listed from the
// innermost to the outermost.
func (a *theApp) buildHandlerPipeline() (http.Handler, error) {
	handler := customheaders.NewMiddleware(a.dispatcher, a.customHeaders)
	handler = handlers.CorsHandler(a.config, handler)
	handler = handlers.Ratelimiter(handler, &a.config.RateLimit)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)
	handler = rejectmethods.NewMiddleware(handler)
	handler = httpMetrics(handler)

	handler, err := logging.BasicAccessLogger(handler, a.config.Log.Format)
	if err != nil {
		return nil, err
	}

	handler = correlationHandler(handler, a.config.General.PropagateCorrelationID)

	handler = ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(log.StandardLogger()),
		ghandlers.PrintRecoveryStack(true),
	)(handler)

	return handler, nil
}

func correlationHandler(handler http.Handler, propagate bool) http.Handler {
	var opts []correlation.InboundHandlerOption
	if propagate {
		opts = append(opts, correlation.WithPropagation())
	}

	return correlation.InjectCorrelationID(handler, opts...)
}

// proxyHandler trusts the X-Forwarded-* headers sent by a PROXY protocol
// frontend so the rest of the pipeline sees the real client
func proxyHandler(handler http.Handler) http.Handler {
	return ghandlers.ProxyHeaders(handler)
}

func runApp(ctx context.Context, config *cfg.Config) error {
	a, err := newApp(config)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}

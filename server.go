package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	proxyproto "github.com/pires/go-proxyproto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"gitlab.com/learnhub/devserver/internal/healthcheck"
)

type keepAliveListener struct {
	net.Listener
	period time.Duration
}

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

type listenerConfig struct {
	name     string
	addr     string
	isProxy  bool
	maxConns int
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if kc, ok := conn.(keepAliveSetter); ok {
		kc.SetKeepAlive(true)
		kc.SetKeepAlivePeriod(ln.period)
	}

	return conn, nil
}

func (a *theApp) listen(config listenerConfig) (net.Listener, error) {
	l, err := net.Listen("tcp", config.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", config.addr, err)
	}

	if a.config.Server.KeepAlive > 0 {
		l = &keepAliveListener{Listener: l, period: a.config.Server.KeepAlive}
	}

	if config.maxConns > 0 {
		l = netutil.LimitListener(l, config.maxConns)
	}

	if config.isProxy {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	return l, nil
}

func (a *theApp) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
		ErrorLog:          stdlog.New(log.StandardLogger().WriterLevel(log.WarnLevel), "", 0),
	}
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Handle("/-/healthcheck", healthcheck.Handler()).Methods(http.MethodGet, http.MethodHead)

	return router
}

type boundServer struct {
	config   listenerConfig
	server   *http.Server
	listener net.Listener
}

func (a *theApp) bindServers() ([]boundServer, error) {
	handler, err := a.buildHandlerPipeline()
	if err != nil {
		return nil, err
	}

	var configs []listenerConfig
	for _, addr := range a.config.Listeners.HTTP {
		configs = append(configs, listenerConfig{name: "http", addr: addr, maxConns: a.config.General.MaxConns})
	}

	for _, addr := range a.config.Listeners.Proxy {
		configs = append(configs, listenerConfig{name: "proxy", addr: addr, isProxy: true, maxConns: a.config.General.MaxConns})
	}

	if a.config.General.MetricsAddress != "" {
		configs = append(configs, listenerConfig{name: "metrics", addr: a.config.General.MetricsAddress})
	}

	var bound []boundServer
	for _, config := range configs {
		l, err := a.listen(config)
		if err != nil {
			for _, b := range bound {
				b.listener.Close()
			}

			return nil, err
		}

		h := handler
		switch {
		case config.name == "metrics":
			h = metricsHandler()
		case config.isProxy:
			h = proxyHandler(handler)
		}

		bound = append(bound, boundServer{config: config, server: a.newServer(h), listener: l})
	}

	return bound, nil
}

// Run serves all listeners until ctx is done or one of them fails, then
// shuts every server down gracefully
func (a *theApp) Run(ctx context.Context) error {
	bound, err := a.bindServers()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, b := range bound {
		b := b

		g.Go(func() error {
			log.WithFields(log.Fields{
				"listener": b.config.name,
				"address":  b.listener.Addr().String(),
			}).Info("starting listener")

			if err := b.server.Serve(b.listener); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listener %s: %w", b.config.name, b.config.addr, err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		var result error
		for _, b := range bound {
			if err := b.server.Shutdown(shutdownCtx); err != nil && result == nil {
				result = fmt.Errorf("shutting down %s listener: %w", b.config.name, err)
			}
		}

		return result
	})

	return g.Wait()
}

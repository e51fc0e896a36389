package frontcontroller

import (
	"net/http/httptrace"
	"time"

	"gitlab.com/gitlab-org/labkit/log"
)

func (mrt *meteredRoundTripper) newTracer(start time.Time) *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		GetConn: func(host string) {
			mrt.httpTraceObserve("httptrace.ClientTrace.GetConn", start)

			log.WithFields(log.Fields{
				"host": host,
			}).Traceln("httptrace.ClientTrace.GetConn")
		},
		GotConn: func(connInfo httptrace.GotConnInfo) {
			mrt.httpTraceObserve("httptrace.ClientTrace.GotConn", start)

			log.WithFields(log.Fields{
				"reused":       connInfo.Reused,
				"was_idle":     connInfo.WasIdle,
				"idle_time_ms": connInfo.IdleTime.Milliseconds(),
			}).Traceln("httptrace.ClientTrace.GotConn")
		},
		ConnectStart: func(network, addr string) {
			mrt.httpTraceObserve("httptrace.ClientTrace.ConnectStart", start)
		},
		ConnectDone: func(network, addr string, err error) {
			mrt.httpTraceObserve("httptrace.ClientTrace.ConnectDone", start)

			l := log.WithFields(log.Fields{
				"network": network,
				"address": addr,
			})

			if err != nil {
				// the application is probably not running
				l.WithError(err).Debug("httptrace.ClientTrace.ConnectDone")
				return
			}

			l.Traceln("httptrace.ClientTrace.ConnectDone")
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			mrt.httpTraceObserve("httptrace.ClientTrace.WroteRequest", start)
		},
		GotFirstResponseByte: func() {
			mrt.httpTraceObserve("httptrace.ClientTrace.GotFirstResponseByte", start)
		},
	}
}

func (mrt *meteredRoundTripper) httpTraceObserve(label string, start time.Time) {
	mrt.tracer.WithLabelValues(label).
		Observe(time.Since(start).Seconds())
}

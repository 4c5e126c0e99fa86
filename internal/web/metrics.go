package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	routesGenerated     prometheus.Counter
	routeFailures       prometheus.Counter
	prospectsFetched    prometheus.Counter
	ledgerWriteFailures prometheus.Counter
	reportsExported     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		routesGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vr",
			Name:      "routes_generated_total",
			Help:      "Routes generated from the prospect source.",
		}),
		routeFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vr",
			Name:      "route_failures_total",
			Help:      "Route generations that failed at the prospect source.",
		}),
		prospectsFetched: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vr",
			Name:      "prospects_fetched_total",
			Help:      "Prospects returned by the prospect source.",
		}),
		ledgerWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vr",
			Name:      "ledger_write_failures_total",
			Help:      "Visit history writes that failed.",
		}),
		reportsExported: f.NewCounter(prometheus.CounterOpts{
			Namespace: "vr",
			Name:      "reports_exported_total",
			Help:      "Sales reports downloaded.",
		}),
	}
}

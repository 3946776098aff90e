package currency

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tallyup_rates_live_fetch_total",
		Help: "Live exchange-rate fetches by outcome (ok, fallback).",
	}, []string{"outcome"})

	snapshotParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tallyup_rates_snapshot_parse_failures_total",
		Help: "Frozen rate snapshots that failed to parse and fell through to live resolution.",
	})
)

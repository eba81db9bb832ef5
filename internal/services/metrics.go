// Package services – domain metrics.
//
// Counters here track engine-level outcomes rather than HTTP traffic (which
// the middleware layer instruments separately).
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	votesCastTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poll_votes_cast_total",
		Help: "Total number of ballots admitted to the ledger.",
	})

	votesChangedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poll_votes_changed_total",
		Help: "Total number of ballot corrections applied.",
	})
)

func init() {
	prometheus.MustRegister(votesCastTotal, votesChangedTotal)
}

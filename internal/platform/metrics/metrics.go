package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MethodPassword = "password"
	MethodGoogle   = "google"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is what the services report to.
type Recorder interface {
	RecordLogin(method, outcome string)
	RecordUserProvisioned(provider string)
	RecordAccessDenied()
	RecordVoteCast()
	RecordTallyRefreshed()
}

type Collector struct {
	logins      *prometheus.CounterVec
	provisioned *prometheus.CounterVec
	denied      prometheus.Counter
	votes       prometheus.Counter
	tallies     prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "p2v_logins_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		provisioned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "p2v_users_provisioned_total",
			Help: "Users created, by identity provider.",
		}, []string{"provider"}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "p2v_access_denied_total",
			Help: "Requests rejected by a role check.",
		}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "p2v_votes_cast_total",
			Help: "Votes cast or cleared.",
		}),
		tallies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "p2v_vote_tallies_refreshed_total",
			Help: "Place vote tallies recomputed by the worker.",
		}),
	}

	reg.MustRegister(c.logins, c.provisioned, c.denied, c.votes, c.tallies)
	return c
}

func (c *Collector) RecordLogin(method, outcome string) {
	c.logins.WithLabelValues(method, outcome).Inc()
}

func (c *Collector) RecordUserProvisioned(provider string) {
	c.provisioned.WithLabelValues(provider).Inc()
}

func (c *Collector) RecordAccessDenied() { c.denied.Inc() }

func (c *Collector) RecordVoteCast() { c.votes.Inc() }

func (c *Collector) RecordTallyRefreshed() { c.tallies.Inc() }

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordLogin(string, string)   {}
func (Nop) RecordUserProvisioned(string) {}
func (Nop) RecordAccessDenied()          {}
func (Nop) RecordVoteCast()              {}
func (Nop) RecordTallyRefreshed()        {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)

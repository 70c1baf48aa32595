package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the console's own operational signals. It satisfies the
// narrow observer interfaces declared by poller, dispatch, and lockout.
type Metrics struct {
	PollFetchesTotal   *prometheus.CounterVec
	PollSkippedTicks   *prometheus.CounterVec
	DispatchesTotal    *prometheus.CounterVec
	LoginFailuresTotal prometheus.Counter
	LockoutsTotal      prometheus.Counter
	ActiveSessions     prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		PollFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "betelgeuse_console_poll_fetches_total",
			Help: "Total poll fetches by poller name and outcome",
		}, []string{"poller", "outcome"}),
		PollSkippedTicks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "betelgeuse_console_poll_skipped_ticks_total",
			Help: "Ticks or refreshes coalesced because a fetch was already queued",
		}, []string{"poller"}),
		DispatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "betelgeuse_console_dispatches_total",
			Help: "Total mutating actions dispatched by name and outcome",
		}, []string{"action", "outcome"}),
		LoginFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "betelgeuse_console_login_failures_total",
			Help: "Total failed console logins",
		}),
		LockoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "betelgeuse_console_login_lockouts_total",
			Help: "Total login lockouts triggered",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "betelgeuse_console_active_sessions",
			Help: "Console sessions currently stored",
		}),
	}
}

func (m *Metrics) ObservePollFetch(name string, success bool) {
	m.PollFetchesTotal.WithLabelValues(name, outcome(success)).Inc()
}

func (m *Metrics) ObservePollSkippedTick(name string) {
	m.PollSkippedTicks.WithLabelValues(name).Inc()
}

func (m *Metrics) ObserveDispatch(action string, success bool) {
	m.DispatchesTotal.WithLabelValues(action, outcome(success)).Inc()
}

func (m *Metrics) ObserveLoginFailure() {
	m.LoginFailuresTotal.Inc()
}

func (m *Metrics) ObserveLockout() {
	m.LockoutsTotal.Inc()
}

func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

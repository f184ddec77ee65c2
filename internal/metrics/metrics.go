package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registrations   prometheus.Counter
	LoginAttempts   *prometheus.CounterVec
	TokenRefreshes  prometheus.Counter
	ThrottleDenials prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "registrations_total",
			Help:      "Accounts created.",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		TokenRefreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "token_refreshes_total",
			Help:      "Successful refresh-token rotations.",
		}),
		ThrottleDenials: f.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "login_throttle_denials_total",
			Help:      "Login attempts denied by the fixed-window throttle.",
		}),
	}
}

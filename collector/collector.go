package collector

import "github.com/prometheus/client_golang/prometheus"

var (
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oltbot",
		Name:      "api_requests_total",
		Help:      "OLT API requests by outcome.",
	}, []string{"outcome"})

	Logins = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oltbot",
		Name:      "logins_total",
		Help:      "Login exchanges performed against the OLT.",
	})

	TokenRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oltbot",
		Name:      "token_rejections_total",
		Help:      "In-band token rejections reported by the OLT.",
	})

	Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oltbot",
		Name:      "commands_total",
		Help:      "Chat commands handled, by command and outcome.",
	}, []string{"command", "outcome"})
)

func init() {
	prometheus.MustRegister(Requests)
	prometheus.MustRegister(Logins)
	prometheus.MustRegister(TokenRejections)
	prometheus.MustRegister(Commands)
}

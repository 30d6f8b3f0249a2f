package ap

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
)

var (
	// commandsTotal counts netlink commands submitted, by command name and
	// outcome ("ok" or "kernel-refused").
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "softapd",
			Name:      "nl80211_commands_total",
			Help:      "Total number of nl80211 commands submitted, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	// probeResponsesTotal counts Probe Requests that were classified as a
	// match and answered.
	probeResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "softapd",
			Name:      "probe_responses_total",
			Help:      "Total number of Probe Requests answered with a Probe Response",
		},
		[]string{"device"},
	)

	// apStateGauge reports the current lifecycle state (0-4, see
	// domain.State) of each known device, for dashboards rather than
	// alerting.
	apStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "softapd",
			Name:      "ap_state",
			Help:      "Current AP lifecycle state per device (0=idle 1=starting 2=running 3=stopping 4=stopped)",
		},
		[]string{"device"},
	)

	metricsOnce sync.Once
)

// InitMetrics registers this package's collectors with the default
// Prometheus registry. Idempotent; safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.DefaultRegisterer.Register(commandsTotal)
		prometheus.DefaultRegisterer.Register(probeResponsesTotal)
		prometheus.DefaultRegisterer.Register(apStateGauge)
	})
}

func observeStateGauge(a *domain.AP) {
	apStateGauge.WithLabelValues(a.DeviceID).Set(float64(a.State))
}

func observeCommandOutcome(cmd uint8, errCode int) {
	name := commandName(cmd)
	if errCode == 0 {
		commandsTotal.WithLabelValues(name, "ok").Inc()
	} else {
		commandsTotal.WithLabelValues(name, "kernel-refused").Inc()
	}
}

func commandName(cmd uint8) string {
	switch cmd {
	case cmdStartAP:
		return "start_ap"
	case cmdStopAP:
		return "stop_ap"
	case cmdFrame:
		return "frame"
	case cmdRegisterFrame:
		return "register_frame"
	default:
		return "unknown"
	}
}

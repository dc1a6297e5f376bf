package interceptors

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/toutaio/toutago-nasc-interception/proxy"
)

// Metrics counts and times proxied calls, labelled by target type, method and
// outcome ("ok" or "error").
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_calls_total",
			Help:      "Total number of calls made through interception proxies",
		}, []string{"target", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "proxy_call_duration_seconds",
			Help:      "Duration of calls made through interception proxies",
			Buckets:   prometheus.DefBuckets,
		}, []string{"target", "method", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Intercept implements proxy.Interceptor.
func (m *Metrics) Intercept(inv *proxy.Invocation) {
	start := time.Now()
	inv.Proceed()

	outcome := "ok"
	if inv.Err() != nil {
		outcome = "error"
	}
	target := targetName(inv)
	m.calls.WithLabelValues(target, inv.Method, outcome).Inc()
	m.duration.WithLabelValues(target, inv.Method, outcome).Observe(time.Since(start).Seconds())
}

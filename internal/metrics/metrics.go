package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iplay", Name: "op_requests_total", Help: "Callable operation requests",
	}, []string{"op"})
	OpErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iplay", Name: "op_errors_total", Help: "Callable operation errors by code",
	}, []string{"op", "code"})
	TriggerEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iplay", Name: "trigger_events_total", Help: "Store change notifications received",
	}, []string{"channel"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "iplay", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(OpRequests, OpErrors, TriggerEvents, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

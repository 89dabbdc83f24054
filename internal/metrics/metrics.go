package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablesorter_reconciliations_total",
		Help: "The total number of configurations built, by origin",
	}, []string{"origin"})
	RecoveredConfigurations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_recovered_configurations_total",
		Help: "The total number of persisted configurations that failed to parse",
	})
	AppliedConfigurations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_applied_configurations_total",
		Help: "The total number of configurations handed to a grid",
	})
	UnchangedConfigurations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_unchanged_configurations_total",
		Help: "The total number of reconciliations that produced no change",
	})
	ApplyErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_apply_errors_total",
		Help: "The total number of grid adapter failures",
	})
	PersistedWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_persisted_writes_total",
		Help: "The total number of configuration writes to the store",
	})
	PersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesorter_persist_errors_total",
		Help: "The total number of failed configuration writes",
	})
	ActiveWidgets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablesorter_active_widgets",
		Help: "The number of widget instances held in memory",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ltd_tracker/internal/domain/service/deal"
)

const namespace = "ltd_tracker"

const (
	resultOK    = "ok"
	resultError = "error"
)

// Collector переводит события хранилища и отправку напоминаний в метрики
// Prometheus.
type Collector struct {
	mutations *prometheus.CounterVec
	deals     prometheus.Gauge
	favorites prometheus.Gauge
	revision  prometheus.Gauge
	reminders *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Number of applied store mutations by event type.",
		}, []string{"type"}),
		deals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deals",
			Help:      "Number of deals in the collection.",
		}),
		favorites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "favorite_deals",
			Help:      "Number of deals marked as favorite.",
		}),
		revision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_revision",
			Help:      "Current revision of the deal store.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_reminders_total",
			Help:      "Number of refund reminders handed to a sink by result.",
		}, []string{"sink", "result"}),
	}

	for _, collector := range []prometheus.Collector{c.mutations, c.deals, c.favorites, c.revision, c.reminders} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("reg.Register: %w", err)
		}
	}

	return c, nil
}

// Observe — подписчик хранилища.
func (c *Collector) Observe(event deal.Event) {
	c.mutations.WithLabelValues(event.Type.String()).Inc()
	c.deals.Set(float64(len(event.Snapshot)))
	c.revision.Set(float64(event.Revision))

	favorites := 0
	for _, d := range event.Snapshot {
		if d.Favorite {
			favorites++
		}
	}

	c.favorites.Set(float64(favorites))
}

func (c *Collector) ObserveReminder(sink string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}

	c.reminders.WithLabelValues(sink, result).Inc()
}

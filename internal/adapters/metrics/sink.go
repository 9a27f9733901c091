package metrics

import (
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// parseAmount parses a decimal.StringFixed(2) value for histogram
// observation; the sink only needs float precision for bucketing, not the
// exact fixed-point value the ledger persists.
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Sink is the default shared.EventSink: it increments Prometheus
// counters/gauges for the events the engine and executor emit, and writes
// a one-line structured message via log/slog for each.
type Sink struct {
	logger *slog.Logger

	ticksTotal       prometheus.Counter
	itemsRepriced    prometheus.Counter
	onlineAtTick     prometheus.Gauge
	tradesTotal      *prometheus.CounterVec
	tradeQuantity    *prometheus.HistogramVec
	tradeTotalAmount *prometheus.HistogramVec
}

// NewSink builds a Sink writing structured log lines through logger (a nil
// logger falls back to slog.Default()). Call Register to attach its metrics
// to a Prometheus registry; Register is a no-op if metrics are disabled.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		logger: logger,

		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Total number of completed repricing ticks",
		}),

		itemsRepriced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_repriced_total",
			Help:      "Total number of item price recalculations across all ticks",
		}),

		onlineAtTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "online_players_at_tick",
			Help:      "Online player count observed at the most recent repricing tick",
		}),

		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trades_total",
				Help:      "Total number of committed trades by direction",
			},
			[]string{"direction"},
		),

		tradeQuantity: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trade_quantity",
				Help:      "Quantity distribution of committed trades",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"direction"},
		),

		tradeTotalAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trade_total_amount",
				Help:      "Total credits distribution of committed trades",
				Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"direction"},
		),
	}
}

// Register attaches the sink's metrics to Registry. A nil Registry (metrics
// disabled) makes this a no-op.
func (s *Sink) Register() error {
	if Registry == nil {
		return nil
	}

	collectors := []prometheus.Collector{
		s.ticksTotal,
		s.itemsRepriced,
		s.onlineAtTick,
		s.tradesTotal,
		s.tradeQuantity,
		s.tradeTotalAmount,
	}

	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Emit implements shared.EventSink, dispatching on the event name the engine
// and executor emit ("repricing_tick", "trade_executed"). Unknown event
// names are still logged, so a future emit site never silently vanishes.
func (s *Sink) Emit(evt shared.Event) {
	switch evt.Name {
	case "repricing_tick":
		s.recordTick(evt)
	case "trade_executed":
		s.recordTrade(evt)
	default:
		s.logger.Info(evt.Name, logArgs(evt.Fields)...)
	}
}

func (s *Sink) recordTick(evt shared.Event) {
	s.ticksTotal.Inc()

	if count, ok := evt.Fields["item_count"].(int); ok {
		s.itemsRepriced.Add(float64(count))
	}
	if online, ok := evt.Fields["online_count"].(int); ok {
		s.onlineAtTick.Set(float64(online))
	}

	s.logger.Info("repricing tick completed", logArgs(evt.Fields)...)
}

func (s *Sink) recordTrade(evt shared.Event) {
	direction, _ := evt.Fields["direction"].(string)

	s.tradesTotal.WithLabelValues(direction).Inc()

	if quantity, ok := evt.Fields["quantity"].(int); ok {
		s.tradeQuantity.WithLabelValues(direction).Observe(float64(quantity))
	}
	if total, ok := evt.Fields["total"].(string); ok {
		if f, err := parseAmount(total); err == nil {
			s.tradeTotalAmount.WithLabelValues(direction).Observe(f)
		}
	}

	s.logger.Info("trade executed", logArgs(evt.Fields)...)
}

// logArgs flattens an event's fields into slog's alternating key/value
// argument form.
func logArgs(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

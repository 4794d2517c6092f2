package game

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// TickMetrics — Prometheus-метрики цикла симуляции.
// Метрики регистрируются в глобальном регистре один раз на процесс:
// несколько экземпляров Game (например, в тестах) разделяют их.
type TickMetrics struct {
	tickDuration prometheus.Histogram
	ticksTotal   prometheus.Counter
	modeGauge    prometheus.Gauge
	collidersNum prometheus.Gauge
}

var (
	tickMetricsOnce sync.Once
	tickMetrics     *TickMetrics
)

// NewTickMetrics возвращает общий набор метрик тика.
func NewTickMetrics() *TickMetrics {
	tickMetricsOnce.Do(func() {
		tickMetrics = &TickMetrics{
			tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "game",
				Name:      "tick_duration_seconds",
				Help:      "Длительность одного тика симуляции.",
				Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
			}),
			ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "game",
				Name:      "ticks_total",
				Help:      "Общее число выполненных тиков.",
			}),
			modeGauge: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "game",
				Name:      "avatar_mode",
				Help:      "Текущий режим аватара: 0 — экстерьер, 1 — интерьер.",
			}),
			collidersNum: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "game",
				Name:      "active_colliders",
				Help:      "Размер активного набора коллайдеров.",
			}),
		}
		prometheus.MustRegister(
			tickMetrics.tickDuration,
			tickMetrics.ticksTotal,
			tickMetrics.modeGauge,
			tickMetrics.collidersNum,
		)
	})
	return tickMetrics
}

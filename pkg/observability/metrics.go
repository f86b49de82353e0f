package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of one ballpark process.
type Metrics struct {
	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	plays         *prometheus.CounterVec
	runs          *prometheus.CounterVec
	gameInnings   prometheus.Histogram
	requests      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if any of them is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ballpark_games_started_total",
			Help: "Total number of games created",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ballpark_games_finished_total",
			Help: "Total number of games played to the end, by winning side",
		}, []string{"winner"}),
		plays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ballpark_plays_total",
			Help: "Total number of pitches resolved, by outcome",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ballpark_runs_total",
			Help: "Total number of runs scored, by half-inning",
		}, []string{"half"}),
		gameInnings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballpark_game_innings",
			Help:    "Innings played in finished games",
			Buckets: prometheus.LinearBuckets(9, 1, 6),
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ballpark_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.gamesStarted, m.gamesFinished, m.plays, m.runs, m.gameInnings, m.requests)
	return m
}

// Hooks returns lifecycle hooks recording game metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(_ context.Context, _ *domain.GameEvent) {
			m.gamesStarted.Inc()
		},
		OnPlay: func(_ context.Context, e *domain.PlayEvent) {
			m.plays.WithLabelValues(string(e.Outcome)).Inc()
			if e.Runs > 0 {
				m.runs.WithLabelValues(string(e.Half)).Add(float64(e.Runs))
			}
		},
		OnGameEnd: func(_ context.Context, e *domain.GameEvent) {
			winner := "away"
			if e.HomeTotal > e.AwayTotal {
				winner = "home"
			}
			m.gamesFinished.WithLabelValues(winner).Inc()
			m.gameInnings.Observe(float64(e.Innings))
		},
	}
}

// ObserveRequest records one served HTTP request. route is the route pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

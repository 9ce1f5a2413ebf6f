package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ResultsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_bracket_results_recorded_total",
			Help: "Knockout match results recorded.",
		}, []string{"competition"}),
		MatchesReset: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_bracket_matches_reset_total",
			Help: "Knockout matches reset by an operator.",
		}, []string{"competition"}),
		GroupMatchesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_group_matches_recorded_total",
			Help: "Round-robin group results recorded.",
		}, []string{"competition"}),
		KnockoutAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_knockout_advances_total",
			Help: "Times the group stage was advanced into the round of 16.",
		}, []string{"competition"}),
		SurvivalRoundsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_survival_rounds_ended_total",
			Help: "Survival rounds closed, labelled by whether the round finished the tournament.",
		}, []string{"final"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_operations_rejected_total",
			Help: "Operations rejected, by operation and error kind.",
		}, []string{"operation", "kind"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoreboard_operation_duration_seconds",
			Help:    "Duration of state-changing operations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoreboard_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ResultsRecorded,
		s.MatchesReset,
		s.GroupMatchesRecorded,
		s.KnockoutAdvances,
		s.SurvivalRoundsEnded,
		s.Rejected,
		s.OperationDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncResultsRecorded(competition string) {
	s.ResultsRecorded.WithLabelValues(competition).Inc()
}

func (s *Service) IncMatchesReset(competition string) {
	s.MatchesReset.WithLabelValues(competition).Inc()
}

func (s *Service) IncGroupMatchesRecorded(competition string) {
	s.GroupMatchesRecorded.WithLabelValues(competition).Inc()
}

func (s *Service) IncKnockoutAdvances(competition string) {
	s.KnockoutAdvances.WithLabelValues(competition).Inc()
}

func (s *Service) IncSurvivalRoundsEnded(final bool) {
	s.SurvivalRoundsEnded.WithLabelValues(strconv.FormatBool(final)).Inc()
}

func (s *Service) IncRejected(operation, kind string) {
	s.Rejected.WithLabelValues(operation, kind).Inc()
}

func (s *Service) ObserveOperationDuration(operation string, seconds float64) {
	s.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}

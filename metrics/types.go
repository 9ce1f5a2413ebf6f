package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus collectors of the scoreboard.
type Service struct {
	ResultsRecorded      *prometheus.CounterVec
	MatchesReset         *prometheus.CounterVec
	GroupMatchesRecorded *prometheus.CounterVec
	KnockoutAdvances     *prometheus.CounterVec
	SurvivalRoundsEnded  *prometheus.CounterVec
	Rejected             *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	StartupTimeSeconds   prometheus.Gauge
}

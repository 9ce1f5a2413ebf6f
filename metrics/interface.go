package metrics

// Metrics decouples the services from the Prometheus implementation.
type Metrics interface {
	IncResultsRecorded(competition string)
	IncMatchesReset(competition string)
	IncGroupMatchesRecorded(competition string)
	IncKnockoutAdvances(competition string)
	IncSurvivalRoundsEnded(final bool)
	IncRejected(operation, kind string)
	ObserveOperationDuration(operation string, seconds float64)
	SetStartupTime(seconds float64)
}

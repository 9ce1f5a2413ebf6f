package metrics

import "sync"

// Mock records calls in memory. It is safe for concurrent use.
type Mock struct {
	mu       sync.Mutex
	counters map[string]int
}

var _ Metrics = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{counters: make(map[string]int)}
}

func (m *Mock) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

// Count returns how many times the named counter was incremented.
func (m *Mock) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

func (m *Mock) IncResultsRecorded(competition string) { m.inc("results_recorded:" + competition) }

func (m *Mock) IncMatchesReset(competition string) { m.inc("matches_reset:" + competition) }

func (m *Mock) IncGroupMatchesRecorded(competition string) {
	m.inc("group_matches_recorded:" + competition)
}

func (m *Mock) IncKnockoutAdvances(competition string) { m.inc("knockout_advances:" + competition) }

func (m *Mock) IncSurvivalRoundsEnded(final bool) {
	if final {
		m.inc("survival_rounds_ended:final")
		return
	}
	m.inc("survival_rounds_ended")
}

func (m *Mock) IncRejected(operation, kind string) { m.inc("rejected:" + operation + ":" + kind) }

func (m *Mock) ObserveOperationDuration(operation string, seconds float64) {}

func (m *Mock) SetStartupTime(seconds float64) {}

package models

// CompetitionOverview собирает сетку и группы одного соревнования.
type CompetitionOverview struct {
	Competition Competition  `json:"competition"`
	Matches     []*MatchNode `json:"matches"`
	Groups      []*Group     `json:"groups"`
	Champion    *string      `json:"champion,omitempty"`
}

// Overview is the spectator landing page payload.
type Overview struct {
	Competitions []CompetitionOverview `json:"competitions"`
	Survival     *SurvivalTournament   `json:"survival,omitempty"`
}

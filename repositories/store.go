package repositories

import "database/sql"

// Store bundles the repositories of one storage backend.
type Store struct {
	Matches  MatchRepository
	Groups   GroupRepository
	Survival SurvivalRepository
	Tx       TxRunner
}

func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Matches:  NewPostgresMatchRepository(db),
		Groups:   NewPostgresGroupRepository(db),
		Survival: NewPostgresSurvivalRepository(db),
		Tx:       NewPostgresTxRunner(db),
	}
}

func NewMemoryBackedStore() *Store {
	m := NewMemoryStore()
	return &Store{
		Matches:  m.Matches(),
		Groups:   m.Groups(),
		Survival: m.Survival(),
		Tx:       m,
	}
}

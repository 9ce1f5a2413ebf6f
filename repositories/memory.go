package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// MemoryStore keeps every document in process memory. Used by tests and STORAGE_DRIVER=memory.
// Transactions are serialized and restored from a snapshot when fn fails.
type MemoryStore struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	matches  map[string]*models.MatchNode
	groups   map[groupKey]*models.Group
	survival map[string]*models.SurvivalTournament
	now      func() time.Time
}

type groupKey struct {
	competition models.Competition
	name        string
}

type memTxKey struct{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches:  make(map[string]*models.MatchNode),
		groups:   make(map[groupKey]*models.Group),
		survival: make(map[string]*models.SurvivalTournament),
		now:      time.Now,
	}
}

func (s *MemoryStore) Matches() MatchRepository { return &memoryMatchRepository{s: s} }

func (s *MemoryStore) Groups() GroupRepository { return &memoryGroupRepository{s: s} }

func (s *MemoryStore) Survival() SurvivalRepository { return &memorySurvivalRepository{s: s} }

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, memTxKey{}, true))
	if err != nil {
		s.restore(snap)
	}
	return err
}

// lock serializes a standalone call against running transactions.
func (s *MemoryStore) lock(ctx context.Context) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type memorySnapshot struct {
	matches  map[string]*models.MatchNode
	groups   map[groupKey]*models.Group
	survival map[string]*models.SurvivalTournament
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := memorySnapshot{
		matches:  make(map[string]*models.MatchNode, len(s.matches)),
		groups:   make(map[groupKey]*models.Group, len(s.groups)),
		survival: make(map[string]*models.SurvivalTournament, len(s.survival)),
	}
	for k, v := range s.matches {
		snap.matches[k] = v.Clone()
	}
	for k, v := range s.groups {
		snap.groups[k] = v.Clone()
	}
	for k, v := range s.survival {
		snap.survival[k] = v.Clone()
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = snap.matches
	s.groups = snap.groups
	s.survival = snap.survival
}

type memoryMatchRepository struct {
	s *MemoryStore
}

func (r *memoryMatchRepository) GetByID(ctx context.Context, id string) (*models.MatchNode, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m.Clone(), nil
}

func (r *memoryMatchRepository) Save(ctx context.Context, m *models.MatchNode) error {
	if (m.NextMatchID == nil) != (m.WinnerDestinationSlot == nil) || (m.LoserNextMatchID == nil) != (m.LoserDestinationSlot == nil) {
		return ErrMatchInvalidRouting
	}
	if (m.Score1 != nil && *m.Score1 < 0) || (m.Score2 != nil && *m.Score2 < 0) {
		return ErrMatchInvalidScore
	}

	defer r.s.lock(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if existing, ok := r.s.matches[m.ID]; ok {
		m.CreatedAt = existing.CreatedAt
	} else {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	r.s.matches[m.ID] = m.Clone()
	return nil
}

func (r *memoryMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.MatchNode, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.MatchNode, 0)
	for _, m := range r.s.matches {
		if m.Competition != filter.Competition {
			continue
		}
		if filter.Round != nil && m.Round != *filter.Round {
			continue
		}
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return models.LessMatch(out[i], out[j]) })
	return out, nil
}

func (r *memoryMatchRepository) ReplaceCompetition(ctx context.Context, competition models.Competition, nodes []*models.MatchNode) error {
	return r.s.WithinTx(ctx, func(ctx context.Context) error {
		r.s.mu.Lock()
		for id, m := range r.s.matches {
			if m.Competition == competition {
				delete(r.s.matches, id)
			}
		}
		r.s.mu.Unlock()
		for _, n := range nodes {
			if err := r.Save(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
}

type memoryGroupRepository struct {
	s *MemoryStore
}

func (r *memoryGroupRepository) Get(ctx context.Context, competition models.Competition, name string) (*models.Group, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[groupKey{competition, name}]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g.Clone(), nil
}

func (r *memoryGroupRepository) Save(ctx context.Context, g *models.Group) error {
	defer r.s.lock(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := groupKey{g.Competition, g.Name}
	now := r.s.now()
	if existing, ok := r.s.groups[key]; ok {
		g.CreatedAt = existing.CreatedAt
	} else {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	if g.Players == nil {
		g.Players = []models.GroupPlayer{}
	}
	r.s.groups[key] = g.Clone()
	return nil
}

func (r *memoryGroupRepository) List(ctx context.Context, competition models.Competition) ([]*models.Group, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Group, 0, len(models.GroupNames))
	for k, g := range r.s.groups {
		if k.competition == competition {
			out = append(out, g.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryGroupRepository) ReplaceCompetition(ctx context.Context, competition models.Competition, groups []*models.Group) error {
	return r.s.WithinTx(ctx, func(ctx context.Context) error {
		r.s.mu.Lock()
		for k := range r.s.groups {
			if k.competition == competition {
				delete(r.s.groups, k)
			}
		}
		r.s.mu.Unlock()
		for _, g := range groups {
			if err := r.Save(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

type memorySurvivalRepository struct {
	s *MemoryStore
}

func (r *memorySurvivalRepository) Get(ctx context.Context, id string) (*models.SurvivalTournament, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.survival[id]
	if !ok {
		return nil, ErrSurvivalNotFound
	}
	return t.Clone(), nil
}

func (r *memorySurvivalRepository) Save(ctx context.Context, t *models.SurvivalTournament) error {
	defer r.s.lock(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	if existing, ok := r.s.survival[t.ID]; ok {
		t.CreatedAt = existing.CreatedAt
	} else {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	r.s.survival[t.ID] = t.Clone()
	return nil
}

func (r *memorySurvivalRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.survival[id]; !ok {
		return ErrSurvivalNotFound
	}
	delete(r.s.survival, id)
	return nil
}

func (r *memorySurvivalRepository) Count(ctx context.Context) (int, error) {
	defer r.s.lock(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.survival), nil
}

package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allybot/goalwatch/internal/core/domain"
)

type mockStore struct {
	accepted []domain.AcceptedGoal
	pending  map[string]domain.PendingGoal

	// failListScore makes ListAcceptedByPair fail for one score, so a single
	// entry in a batch can be made to error.
	failListScore string
}

func newMockStore() *mockStore {
	return &mockStore{pending: map[string]domain.PendingGoal{}}
}

func (m *mockStore) ListAcceptedByPair(_ context.Context, pairKey, score string, since time.Time) ([]domain.AcceptedGoal, error) {
	if m.failListScore != "" && score == m.failListScore {
		return nil, errors.New("storage down")
	}

	var out []domain.AcceptedGoal

	for _, g := range m.accepted {
		if g.PairKey == pairKey && g.Score == score && g.AcceptedAt.After(since) {
			out = append(out, g)
		}
	}

	return out, nil
}

func (m *mockStore) InsertAccepted(_ context.Context, g domain.AcceptedGoal) (bool, error) {
	for _, existing := range m.accepted {
		if existing.Key == g.Key {
			return false, nil
		}
	}

	m.accepted = append(m.accepted, g)

	return true, nil
}

func (m *mockStore) InsertPending(_ context.Context, p domain.PendingGoal) (bool, error) {
	if _, ok := m.pending[p.Key]; ok {
		return false, nil
	}

	m.pending[p.Key] = p

	return true, nil
}

func (m *mockStore) ListPending(_ context.Context) ([]domain.PendingGoal, error) {
	out := make([]domain.PendingGoal, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p)
	}

	return out, nil
}

func (m *mockStore) DeletePending(_ context.Context, key string) error {
	delete(m.pending, key)

	return nil
}

type mockNotifier struct {
	sent []domain.PendingGoal
}

func (m *mockNotifier) NotifyFallback(_ context.Context, p domain.PendingGoal) error {
	m.sent = append(m.sent, p)

	return nil
}

func snapshot() domain.MatchSnapshot {
	return domain.MatchSnapshot{
		ID:        "401547496",
		Home:      "Liverpool",
		Away:      "Tottenham Hotspur",
		HomeScore: 1,
		AwayScore: 1,
		Status:    domain.StatusSecondHalf,
		Goals: []domain.MatchGoal{
			{Minute: "12", Scorer: "Mohamed Salah", Team: "home"},
			{Minute: "58", Scorer: "Heung-Min Son", Team: "away"},
		},
	}
}

func TestGoalsFromSnapshot(t *testing.T) {
	goals := GoalsFromSnapshot(snapshot(), time.Now())
	require.Len(t, goals, 2)

	first, second := goals[0], goals[1]

	assert.Equal(t, "1-0", first.Score)
	assert.Equal(t, "1-1", second.Score)
	assert.Equal(t, "liverpool|tottenham#1-0#12", first.Key)
	assert.Equal(t, "liverpool|tottenham#1-1#58", second.Key)
	assert.Equal(t, "son", second.Scorer)
	assert.Equal(t, "away", second.ScoringSide)
}

func TestGoalsFromSnapshotStoppageTime(t *testing.T) {
	m := snapshot()
	m.Goals = append(m.Goals, domain.MatchGoal{Minute: "90+2", Scorer: "Mohamed Salah", Team: "home"})

	goals := GoalsFromSnapshot(m, time.Now())
	require.Len(t, goals, 3)

	// Stoppage goals key on the base minute like everything else.
	assert.Equal(t, "liverpool|tottenham#2-1#90", goals[2].Key)
	assert.Equal(t, 90, goals[2].Minute)
	assert.Equal(t, "2-1", goals[2].Score)
}

func TestObserveSkipsCoveredGoals(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()

	// The primary source already delivered the first goal, one minute off.
	store.accepted = append(store.accepted, domain.AcceptedGoal{
		Key:        "liverpool|tottenham#1-0#13",
		PairKey:    "liverpool|tottenham",
		Score:      "1-0",
		Minute:     13,
		AcceptedAt: now.Add(-10 * time.Minute),
		Origin:     domain.OriginPrimary,
	})

	r := New(store, &mockNotifier{}, 3*time.Minute, &logger)

	require.NoError(t, r.Observe(context.Background(), snapshot(), now))

	require.Len(t, store.pending, 1)
	assert.Contains(t, store.pending, "liverpool|tottenham#1-1#58")
}

func TestObserveIgnoresFinishedMatches(t *testing.T) {
	logger := zerolog.Nop()
	store := newMockStore()
	r := New(store, &mockNotifier{}, 3*time.Minute, &logger)

	m := snapshot()
	m.Status = domain.StatusFullTime

	require.NoError(t, r.Observe(context.Background(), m, time.Now()))
	assert.Empty(t, store.pending)
}

func TestObserveContinuesPastFailingGoal(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()

	// The first goal's coverage lookup fails; the second must still be seeded.
	store.failListScore = "1-0"

	r := New(store, &mockNotifier{}, 3*time.Minute, &logger)

	err := r.Observe(context.Background(), snapshot(), now)
	require.Error(t, err)

	require.Len(t, store.pending, 1)
	assert.Contains(t, store.pending, "liverpool|tottenham#1-1#58")
}

func TestReconcileDropsCoveredSilently(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()
	notifier := &mockNotifier{}

	store.pending["liverpool|tottenham#1-0#12"] = domain.PendingGoal{
		Key:        "liverpool|tottenham#1-0#12",
		PairKey:    "liverpool|tottenham",
		Score:      "1-0",
		Minute:     12,
		DetectedAt: now.Add(-time.Minute),
	}

	store.accepted = append(store.accepted, domain.AcceptedGoal{
		Key:        "liverpool|tottenham#1-0#11",
		PairKey:    "liverpool|tottenham",
		Score:      "1-0",
		Minute:     11,
		AcceptedAt: now,
		Origin:     domain.OriginPrimary,
	})

	r := New(store, notifier, 3*time.Minute, &logger)

	require.NoError(t, r.Reconcile(context.Background(), now))
	assert.Empty(t, notifier.sent)
	assert.Empty(t, store.pending)
}

func TestReconcileFiresAfterGrace(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()
	notifier := &mockNotifier{}

	p := domain.PendingGoal{
		Key:        "liverpool|tottenham#1-1#58",
		PairKey:    "liverpool|tottenham",
		Score:      "1-1",
		Minute:     58,
		DetectedAt: now.Add(-4 * time.Minute),
		MatchID:    "401547496",
	}
	store.pending[p.Key] = p

	r := New(store, notifier, 3*time.Minute, &logger)

	require.NoError(t, r.Reconcile(context.Background(), now))

	require.Len(t, notifier.sent, 1)
	require.Len(t, store.accepted, 1)
	assert.Equal(t, domain.OriginFallback, store.accepted[0].Origin)
	assert.Empty(t, store.pending, "pending should be empty after promotion")

	// A second pass must not fire again.
	require.NoError(t, r.Reconcile(context.Background(), now.Add(time.Minute)))
	assert.Len(t, notifier.sent, 1)
}

func TestReconcileLeavesYoungPending(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()
	notifier := &mockNotifier{}

	p := domain.PendingGoal{
		Key:        "liverpool|tottenham#1-1#58",
		PairKey:    "liverpool|tottenham",
		Score:      "1-1",
		Minute:     58,
		DetectedAt: now.Add(-time.Minute),
	}
	store.pending[p.Key] = p

	r := New(store, notifier, 3*time.Minute, &logger)

	require.NoError(t, r.Reconcile(context.Background(), now))
	assert.Empty(t, notifier.sent)
	assert.Len(t, store.pending, 1)
}

func TestReconcileContinuesPastFailingEntry(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()
	notifier := &mockNotifier{}

	store.pending["liverpool|tottenham#1-0#12"] = domain.PendingGoal{
		Key:        "liverpool|tottenham#1-0#12",
		PairKey:    "liverpool|tottenham",
		Score:      "1-0",
		Minute:     12,
		DetectedAt: now.Add(-4 * time.Minute),
	}
	store.pending["liverpool|tottenham#1-1#58"] = domain.PendingGoal{
		Key:        "liverpool|tottenham#1-1#58",
		PairKey:    "liverpool|tottenham",
		Score:      "1-1",
		Minute:     58,
		DetectedAt: now.Add(-4 * time.Minute),
	}

	// One entry's coverage lookup fails; its sibling must still be promoted.
	store.failListScore = "1-0"

	r := New(store, notifier, 3*time.Minute, &logger)

	err := r.Reconcile(context.Background(), now)
	require.Error(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "liverpool|tottenham#1-1#58", notifier.sent[0].Key)
	assert.Contains(t, store.pending, "liverpool|tottenham#1-0#12")
	assert.NotContains(t, store.pending, "liverpool|tottenham#1-1#58")
}

func TestReconcilePromotionRaceStaysSilent(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()
	store := newMockStore()
	notifier := &mockNotifier{}

	// Accepted entry with the identical key but outside minute tolerance is
	// impossible; simulate the insert race with an exact-key row recorded
	// outside the coverage horizon.
	store.accepted = append(store.accepted, domain.AcceptedGoal{
		Key:        "liverpool|tottenham#1-1#58",
		PairKey:    "liverpool|tottenham",
		Score:      "1-1",
		Minute:     58,
		AcceptedAt: now.Add(-7 * time.Hour),
		Origin:     domain.OriginPrimary,
	})

	p := domain.PendingGoal{
		Key:        "liverpool|tottenham#1-1#58",
		PairKey:    "liverpool|tottenham",
		Score:      "1-1",
		Minute:     58,
		DetectedAt: now.Add(-4 * time.Minute),
	}
	store.pending[p.Key] = p

	r := New(store, notifier, 3*time.Minute, &logger)

	require.NoError(t, r.Reconcile(context.Background(), now))
	assert.Empty(t, notifier.sent, "no notification when the key already exists")
	assert.Empty(t, store.pending, "pending should be cleared after the lost race")
}

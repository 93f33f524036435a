package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

// fakeRoundRepo keeps rounds in a slice and applies transitions without
// any of the store's locking; these tests cover the orchestration, not
// the invariants the store enforces.
type fakeRoundRepo struct {
	rounds        []domain.Round
	transitionErr map[uint]error
}

func (f *fakeRoundRepo) Create(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error) {
	round.ID = uint(len(f.rounds) + 1)
	round.SequenceNumber = len(f.rounds) + 1
	round.Status = domain.StatusPending
	f.rounds = append(f.rounds, round)

	return round, nil
}

func (f *fakeRoundRepo) FindByID(ctx context.Context, id uint) (domain.Round, error) {
	for _, r := range f.rounds {
		if r.ID == id {
			return r, nil
		}
	}

	return domain.Round{}, &domain.NotFoundError{Entity: "round", ID: id}
}

func (f *fakeRoundRepo) FindOwned(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRoundRepo) ListByEvent(ctx context.Context, eventID uint) ([]domain.Round, error) {
	var out []domain.Round
	for _, r := range f.rounds {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeRoundRepo) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRoundRepo) Delete(ctx context.Context, id, ownerID uint) error {
	for i, r := range f.rounds {
		if r.ID == id {
			f.rounds = append(f.rounds[:i], f.rounds[i+1:]...)
			return nil
		}
	}

	return nil
}

func (f *fakeRoundRepo) Transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Round, error) {
	if err := f.transitionErr[id]; err != nil {
		return domain.Round{}, err
	}

	for i, r := range f.rounds {
		if r.ID != id {
			continue
		}
		if !r.Status.CanTransition(to) {
			return domain.Round{}, &domain.InvalidTransitionError{
				Entity: "round",
				From:   r.Status,
				To:     to,
			}
		}
		f.rounds[i].Status = to

		return f.rounds[i], nil
	}

	return domain.Round{}, &domain.NotFoundError{Entity: "round", ID: id}
}

func newRoundFixture(statuses ...domain.Status) *fakeRoundRepo {
	repo := &fakeRoundRepo{transitionErr: map[uint]error{}}
	for i, status := range statuses {
		repo.rounds = append(repo.rounds, domain.Round{
			ID:             uint(i + 1),
			EventID:        1,
			SequenceNumber: i + 1,
			Status:         status,
		})
	}

	return repo
}

func TestAdvanceRound(t *testing.T) {
	ctx := context.Background()

	t.Run("completes current and activates next", func(t *testing.T) {
		repo := newRoundFixture(domain.StatusOngoing, domain.StatusPending)
		svc := NewRoundService(repo, realtime.NewBroker())

		advance, err := svc.AdvanceRound(ctx, 1, 1)

		require.NoError(t, err)
		assert.True(t, advance.Advanced)
		assert.Equal(t, domain.StatusCompleted, advance.Completed.Status)
		require.NotNil(t, advance.Activated)
		assert.Equal(t, uint(2), advance.Activated.ID)
		assert.Equal(t, domain.StatusOngoing, advance.Activated.Status)
	})

	t.Run("last round completes without error", func(t *testing.T) {
		repo := newRoundFixture(domain.StatusCompleted, domain.StatusOngoing)
		svc := NewRoundService(repo, realtime.NewBroker())

		advance, err := svc.AdvanceRound(ctx, 1, 1)

		require.NoError(t, err)
		assert.False(t, advance.Advanced)
		assert.Nil(t, advance.Activated)
		assert.Equal(t, uint(2), advance.Completed.ID)
		assert.Equal(t, domain.StatusCompleted, advance.Completed.Status)
	})

	t.Run("skips pending rounds with lower sequence", func(t *testing.T) {
		// Round 1 was never started; advancing from round 2 must not
		// re-activate it.
		repo := newRoundFixture(domain.StatusPending, domain.StatusOngoing, domain.StatusPending)
		svc := NewRoundService(repo, realtime.NewBroker())

		advance, err := svc.AdvanceRound(ctx, 1, 1)

		require.NoError(t, err)
		require.NotNil(t, advance.Activated)
		assert.Equal(t, uint(3), advance.Activated.ID)
	})

	t.Run("no ongoing round is a conflict", func(t *testing.T) {
		repo := newRoundFixture(domain.StatusPending, domain.StatusPending)
		svc := NewRoundService(repo, realtime.NewBroker())

		_, err := svc.AdvanceRound(ctx, 1, 1)

		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("completion sticks when activation fails", func(t *testing.T) {
		repo := newRoundFixture(domain.StatusOngoing, domain.StatusPending)
		repo.transitionErr[2] = &domain.PersistenceError{Entity: "round", Reason: "write rejected", Err: errors.New("boom")}
		svc := NewRoundService(repo, realtime.NewBroker())

		advance, err := svc.AdvanceRound(ctx, 1, 1)

		require.Error(t, err)
		assert.False(t, advance.Advanced)
		assert.Equal(t, domain.StatusCompleted, advance.Completed.Status)
		assert.Equal(t, domain.StatusCompleted, repo.rounds[0].Status)
	})
}

func TestDeleteRoundIsIdempotent(t *testing.T) {
	repo := newRoundFixture(domain.StatusPending)
	svc := NewRoundService(repo, realtime.NewBroker())

	require.NoError(t, svc.DeleteRound(context.Background(), 1, 1))
	require.NoError(t, svc.DeleteRound(context.Background(), 1, 1))
	assert.Empty(t, repo.rounds)
}

func TestStartRoundSurfacesInvalidTransition(t *testing.T) {
	repo := newRoundFixture(domain.StatusCompleted)
	svc := NewRoundService(repo, realtime.NewBroker())

	_, err := svc.StartRound(context.Background(), 1, 1)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusCompleted, invalid.From)
	assert.Equal(t, domain.StatusOngoing, invalid.To)
}

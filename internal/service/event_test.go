package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

type fakeEventRepo struct {
	events       map[uint]domain.Event
	nextID       uint
	createFails  int
	createdCodes []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uint]domain.Event{}, nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	f.createdCodes = append(f.createdCodes, event.JoinCode)
	if f.createFails > 0 {
		f.createFails--
		return domain.Event{}, &domain.PersistenceError{Entity: "event", Reason: "join code already exists"}
	}

	event.ID = f.nextID
	event.Status = domain.StatusPending
	f.nextID++
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, &domain.NotFoundError{Entity: "event", ID: id}
	}

	return event, nil
}

func (f *fakeEventRepo) FindOwned(ctx context.Context, id, ownerID uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok || event.CreatedBy != ownerID {
		return domain.Event{}, &domain.NotFoundError{Entity: "event", ID: id}
	}

	return event, nil
}

func (f *fakeEventRepo) FindByJoinCode(ctx context.Context, joinCode string) (domain.Event, error) {
	for _, event := range f.events {
		if event.JoinCode == joinCode {
			return event, nil
		}
	}

	return domain.Event{}, &domain.NotFoundError{Entity: "event"}
}

func (f *fakeEventRepo) ListOwned(ctx context.Context, ownerID uint) ([]domain.Event, error) {
	var out []domain.Event
	for _, event := range f.events {
		if event.CreatedBy == ownerID {
			out = append(out, event)
		}
	}

	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Event, error) {
	return f.FindOwned(ctx, id, ownerID)
}

func (f *fakeEventRepo) Delete(ctx context.Context, id, ownerID uint) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Transition(ctx context.Context, id, actorID uint, to domain.Status) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, &domain.NotFoundError{Entity: "event", ID: id}
	}
	if !event.Status.CanTransition(to) {
		return domain.Event{}, &domain.InvalidTransitionError{Entity: "event", From: event.Status, To: to}
	}
	event.Status = to
	f.events[id] = event

	return event, nil
}

type fakeTeamRepo struct {
	teams  []domain.Team
	nextID uint
}

func (f *fakeTeamRepo) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	for _, existing := range f.teams {
		if existing.EventID == team.EventID && existing.Name == team.Name {
			return domain.Team{}, &domain.PersistenceError{Entity: "team", Reason: "name already taken"}
		}
	}

	f.nextID++
	team.ID = f.nextID
	f.teams = append(f.teams, team)

	return team, nil
}

func (f *fakeTeamRepo) FindByID(ctx context.Context, id uint) (domain.Team, error) {
	for _, team := range f.teams {
		if team.ID == id {
			return team, nil
		}
	}

	return domain.Team{}, &domain.NotFoundError{Entity: "team", ID: id}
}

func (f *fakeTeamRepo) ListByEvent(ctx context.Context, eventID uint) ([]domain.Team, error) {
	var out []domain.Team
	for _, team := range f.teams {
		if team.EventID == eventID {
			out = append(out, team)
		}
	}

	return out, nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := generateJoinCode()
		require.Len(t, code, joinCodeLength)
		for _, c := range code {
			assert.Contains(t, joinCodeCharset, string(c))
		}
		seen[code] = true
	}

	// 100 six-character codes colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 90)
}

func TestGenerateJoinCodeIsSafeForConcurrentUse(t *testing.T) {
	// gin serves handlers on separate goroutines, so simultaneous event
	// creations hit the generator at once. Run under -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if code := generateJoinCode(); len(code) != joinCodeLength {
					t.Errorf("got code %q, want length %d", code, joinCodeLength)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCreateEventRetriesJoinCodeCollision(t *testing.T) {
	repo := newFakeEventRepo()
	repo.createFails = 2
	svc := NewEventService(repo, &fakeTeamRepo{}, realtime.NewBroker())

	event, err := svc.CreateEvent(context.Background(), domain.Event{Name: "Pub Quiz", CreatedBy: 1})

	require.NoError(t, err)
	assert.NotEmpty(t, event.JoinCode)
	assert.Len(t, repo.createdCodes, 3)
}

func TestCreateEventGivesUpAfterRetries(t *testing.T) {
	repo := newFakeEventRepo()
	repo.createFails = 3
	svc := NewEventService(repo, &fakeTeamRepo{}, realtime.NewBroker())

	_, err := svc.CreateEvent(context.Background(), domain.Event{Name: "Pub Quiz", CreatedBy: 1})

	var persist *domain.PersistenceError
	require.ErrorAs(t, err, &persist)
}

func TestJoinEvent(t *testing.T) {
	repo := newFakeEventRepo()
	teamRepo := &fakeTeamRepo{}
	svc := NewEventService(repo, teamRepo, realtime.NewBroker())

	event, err := svc.CreateEvent(context.Background(), domain.Event{Name: "Pub Quiz", CreatedBy: 1})
	require.NoError(t, err)

	t.Run("join code is case and space insensitive", func(t *testing.T) {
		scrambled := "  " + strings.ToLower(event.JoinCode) + " "
		team, err := svc.JoinEvent(context.Background(), scrambled, "The Quizzards")

		require.NoError(t, err)
		assert.Equal(t, event.ID, team.EventID)
		assert.Equal(t, "The Quizzards", team.Name)
	})

	t.Run("duplicate team name is rejected", func(t *testing.T) {
		_, err := svc.JoinEvent(context.Background(), event.JoinCode, "The Quizzards")

		var persist *domain.PersistenceError
		require.ErrorAs(t, err, &persist)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, err := svc.JoinEvent(context.Background(), "ZZZZZZ", "Late Arrivals")

		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestEventTransitionRequiresOwnership(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &fakeTeamRepo{}, realtime.NewBroker())

	event, err := svc.CreateEvent(context.Background(), domain.Event{Name: "Pub Quiz", CreatedBy: 1})
	require.NoError(t, err)

	_, err = svc.StartEvent(context.Background(), event.ID, 2)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	started, err := svc.StartEvent(context.Background(), event.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOngoing, started.Status)
}

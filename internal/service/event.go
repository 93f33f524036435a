package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

const (
	joinCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeLength  = 6
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindOwned(ctx context.Context, id, ownerID uint) (domain.Event, error)
	FindByJoinCode(ctx context.Context, joinCode string) (domain.Event, error)
	ListOwned(ctx context.Context, ownerID uint) ([]domain.Event, error)
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Event, error)
	Delete(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, actorID uint, to domain.Status) (domain.Event, error)
}

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	FindByID(ctx context.Context, id uint) (domain.Team, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Team, error)
	Delete(ctx context.Context, id uint) error
}

type EventService struct {
	repo     EventRepository
	teamRepo TeamRepository
	broker   *realtime.Broker
}

func NewEventService(repo EventRepository, teamRepo TeamRepository, broker *realtime.Broker) *EventService {
	return &EventService{
		repo:     repo,
		teamRepo: teamRepo,
		broker:   broker,
	}
}

// CreateEvent persists a pending event with a fresh join code. A code
// collision is retried a few times before giving up.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	var persistErr *domain.PersistenceError
	for attempt := 0; attempt < 3; attempt++ {
		event.JoinCode = generateJoinCode()

		created, err := s.repo.Create(ctx, event)
		if err == nil {
			return created, nil
		}
		if !errors.As(err, &persistErr) {
			return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}

	return domain.Event{}, persistErr
}

func (s *EventService) GetEvent(ctx context.Context, id, ownerID uint) (domain.Event, error) {
	event, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

// GetEventByID looks an event up without an ownership check, for
// surfaces teams reach without authenticating.
func (s *EventService) GetEventByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, ownerID uint) ([]domain.Event, error) {
	events, err := s.repo.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListOwned -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		return domain.Event{}, err
	}

	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: id})

	return updated, nil
}

// DeleteEvent removes the event and everything under it. Deleting an
// event that is already gone succeeds.
func (s *EventService) DeleteEvent(ctx context.Context, id, ownerID uint) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: id})

	return nil
}

// StartEvent moves the event pending -> ongoing. No round needs to
// exist yet.
func (s *EventService) StartEvent(ctx context.Context, id, actorID uint) (domain.Event, error) {
	return s.transition(ctx, id, actorID, domain.StatusOngoing)
}

// CompleteEvent moves the event ongoing -> completed regardless of
// child round states; the organizer may end early.
func (s *EventService) CompleteEvent(ctx context.Context, id, actorID uint) (domain.Event, error) {
	return s.transition(ctx, id, actorID, domain.StatusCompleted)
}

func (s *EventService) transition(ctx context.Context, id, actorID uint, to domain.Status) (domain.Event, error) {
	if _, err := s.repo.FindOwned(ctx, id, actorID); err != nil {
		return domain.Event{}, err
	}

	moved, err := s.repo.Transition(ctx, id, actorID, to)
	if err != nil {
		return domain.Event{}, err
	}

	zap.L().Info("event transitioned",
		zap.Uint("event", id),
		zap.String("status", string(to)))
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: id})

	return moved, nil
}

// JoinEvent resolves a join code and registers a team under the event.
func (s *EventService) JoinEvent(ctx context.Context, joinCode, teamName string) (domain.Team, error) {
	event, err := s.repo.FindByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(joinCode)))
	if err != nil {
		return domain.Team{}, err
	}

	team, err := s.teamRepo.Create(ctx, domain.Team{
		EventID: event.ID,
		Name:    teamName,
	})
	if err != nil {
		return domain.Team{}, err
	}

	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: event.ID})

	return team, nil
}

func (s *EventService) ListTeams(ctx context.Context, eventID uint) ([]domain.Team, error) {
	teams, err := s.teamRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.teamRepo.ListByEvent -> %w", err)
	}

	return teams, nil
}

// generateJoinCode uses the top-level rand functions, which are safe
// under concurrent handlers; a per-service rand.Rand would not be.
func generateJoinCode() string {
	var sb strings.Builder
	sb.Grow(joinCodeLength)
	for i := 0; i < joinCodeLength; i++ {
		sb.WriteByte(joinCodeCharset[rand.Intn(len(joinCodeCharset))])
	}

	return sb.String()
}

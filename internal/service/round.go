package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

type RoundRepository interface {
	Create(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error)
	FindByID(ctx context.Context, id uint) (domain.Round, error)
	FindOwned(ctx context.Context, id, ownerID uint) (domain.Round, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Round, error)
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error)
	Delete(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Round, error)
}

// RoundAdvance reports the outcome of an advance: the round that was
// completed and, when one existed, the round that went ongoing.
// Advanced false with a nil error means the completed round was the
// last one; that is a terminal state, not a failure.
type RoundAdvance struct {
	Completed domain.Round  `json:"completed"`
	Activated *domain.Round `json:"activated,omitempty"`
	Advanced  bool          `json:"advanced"`
}

type RoundService struct {
	repo   RoundRepository
	broker *realtime.Broker
}

func NewRoundService(repo RoundRepository, broker *realtime.Broker) *RoundService {
	return &RoundService{
		repo:   repo,
		broker: broker,
	}
}

func (s *RoundService) CreateRound(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error) {
	created, err := s.repo.Create(ctx, round, ownerID)
	if err != nil {
		return domain.Round{}, err
	}

	s.notify(created)

	return created, nil
}

func (s *RoundService) GetRound(ctx context.Context, id uint) (domain.Round, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RoundService) ListRounds(ctx context.Context, eventID uint) ([]domain.Round, error) {
	rounds, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return rounds, nil
}

func (s *RoundService) UpdateRound(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error) {
	updated, err := s.repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		return domain.Round{}, err
	}

	s.notify(updated)

	return updated, nil
}

func (s *RoundService) DeleteRound(ctx context.Context, id, ownerID uint) error {
	round, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil // idempotent delete
		}

		return err
	}

	if err = s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.notify(round)

	return nil
}

// StartRound activates a round. The store enforces the gate (owning
// event ongoing), the single-active-round invariant and the caller's
// ownership atomically.
func (s *RoundService) StartRound(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	return s.transition(ctx, id, ownerID, domain.StatusOngoing)
}

func (s *RoundService) CompleteRound(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	return s.transition(ctx, id, ownerID, domain.StatusCompleted)
}

func (s *RoundService) transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Round, error) {
	moved, err := s.repo.Transition(ctx, id, ownerID, to)
	if err != nil {
		return domain.Round{}, err
	}

	zap.L().Info("round transitioned",
		zap.Uint("round", id),
		zap.String("status", string(to)))
	s.notify(moved)

	return moved, nil
}

// AdvanceRound completes the event's ongoing round and activates the
// next pending one by ascending sequence number. The completion commits
// even when nothing can be activated afterwards.
func (s *RoundService) AdvanceRound(ctx context.Context, eventID, ownerID uint) (RoundAdvance, error) {
	rounds, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return RoundAdvance{}, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	var current *domain.Round
	for i := range rounds {
		if rounds[i].Status == domain.StatusOngoing {
			current = &rounds[i]
			break
		}
	}
	if current == nil {
		return RoundAdvance{}, &domain.ConflictError{
			Entity: "round",
			Reason: "no round is ongoing in this event",
		}
	}

	completed, err := s.transition(ctx, current.ID, ownerID, domain.StatusCompleted)
	if err != nil {
		return RoundAdvance{}, err
	}

	var next *domain.Round
	for i := range rounds {
		if rounds[i].SequenceNumber > completed.SequenceNumber && rounds[i].Status == domain.StatusPending {
			next = &rounds[i]
			break
		}
	}
	if next == nil {
		return RoundAdvance{Completed: completed}, nil
	}

	activated, err := s.transition(ctx, next.ID, ownerID, domain.StatusOngoing)
	if err != nil {
		// The completion above already committed; surface the
		// activation failure with the completed round attached so
		// callers can tell the two apart.
		return RoundAdvance{Completed: completed}, err
	}

	return RoundAdvance{Completed: completed, Activated: &activated, Advanced: true}, nil
}

func (s *RoundService) notify(round domain.Round) {
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeRound, ID: round.ID})
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: round.EventID})
}

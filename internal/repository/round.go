package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type RoundDAO interface {
	Insert(ctx context.Context, round dao.Round, ownerID uint) (dao.Round, error)
	FindByID(ctx context.Context, id uint) (dao.Round, error)
	FindOwned(ctx context.Context, id, ownerID uint) (dao.Round, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.Round, error)
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (dao.Round, error)
	Delete(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, ownerID uint, to domain.Status) (dao.Round, error)
}

type RoundRepository struct {
	dao RoundDAO
}

func NewRoundRepository(dao RoundDAO) *RoundRepository {
	return &RoundRepository{
		dao: dao,
	}
}

func (r *RoundRepository) Create(ctx context.Context, round domain.Round, ownerID uint) (domain.Round, error) {
	created, err := r.dao.Insert(ctx, dao.Round{
		EventID:          round.EventID,
		Name:             round.Name,
		Description:      round.Description,
		TimeLimitSeconds: round.TimeLimitSeconds,
	}, ownerID)
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.Round{}, &domain.NotFoundError{Entity: "event", ID: round.EventID}
		}
		if errors.Is(err, dao.ErrSequenceConflict) {
			return domain.Round{}, &domain.PersistenceError{
				Entity: "round",
				Reason: "sequence number already taken",
				Err:    err,
			}
		}

		return domain.Round{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return roundDaoToDomain(created), nil
}

func (r *RoundRepository) FindByID(ctx context.Context, id uint) (domain.Round, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Round{}, mapRoundErr(err, id)
	}

	return roundDaoToDomain(found), nil
}

func (r *RoundRepository) FindOwned(ctx context.Context, id, ownerID uint) (domain.Round, error) {
	found, err := r.dao.FindOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Round{}, mapRoundErr(err, id)
	}

	return roundDaoToDomain(found), nil
}

func (r *RoundRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Round, error) {
	found, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	rounds := make([]domain.Round, 0, len(found))
	for _, rd := range found {
		rounds = append(rounds, roundDaoToDomain(rd))
	}

	return rounds, nil
}

func (r *RoundRepository) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Round, error) {
	updated, err := r.dao.Update(ctx, id, ownerID, fields)
	if err != nil {
		return domain.Round{}, mapRoundErr(err, id)
	}

	return roundDaoToDomain(updated), nil
}

func (r *RoundRepository) Delete(ctx context.Context, id, ownerID uint) error {
	if err := r.dao.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RoundRepository) Transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Round, error) {
	moved, err := r.dao.Transition(ctx, id, ownerID, to)
	if err != nil {
		return domain.Round{}, mapRoundErr(err, id)
	}

	return roundDaoToDomain(moved), nil
}

func mapRoundErr(err error, id uint) error {
	if errors.Is(err, dao.ErrRoundNotFound) {
		return &domain.NotFoundError{Entity: "round", ID: id}
	}

	var invalid *domain.InvalidTransitionError
	var conflict *domain.ConflictError
	if errors.As(err, &invalid) || errors.As(err, &conflict) {
		return err
	}

	return fmt.Errorf("round dao -> %w", err)
}

func roundDaoToDomain(r dao.Round) domain.Round {
	return domain.Round{
		ID:               r.ID,
		EventID:          r.EventID,
		Name:             r.Name,
		Description:      r.Description,
		SequenceNumber:   r.SequenceNumber,
		Status:           domain.NormalizeStatus(r.Status),
		TimeLimitSeconds: r.TimeLimitSeconds,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

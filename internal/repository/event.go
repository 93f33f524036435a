package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindOwned(ctx context.Context, id, ownerID uint) (dao.Event, error)
	FindByJoinCode(ctx context.Context, joinCode string) (dao.Event, error)
	ListOwned(ctx context.Context, ownerID uint) ([]dao.Event, error)
	UpdateOwned(ctx context.Context, id, ownerID uint, fields map[string]any) (dao.Event, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, actorID uint, to domain.Status) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Name:      event.Name,
		Schedule:  event.Schedule,
		Status:    string(domain.StatusPending),
		JoinCode:  event.JoinCode,
		CreatedBy: event.CreatedBy,
		UpdatedBy: event.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, dao.ErrJoinCodeExists) {
			return domain.Event{}, &domain.PersistenceError{
				Entity: "event",
				Reason: "join code already in use",
				Err:    err,
			}
		}

		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, mapEventErr(err, id)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) FindOwned(ctx context.Context, id, ownerID uint) (domain.Event, error) {
	found, err := r.dao.FindOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Event{}, mapEventErr(err, id)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) FindByJoinCode(ctx context.Context, joinCode string) (domain.Event, error) {
	found, err := r.dao.FindByJoinCode(ctx, joinCode)
	if err != nil {
		return domain.Event{}, mapEventErr(err, 0)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) ListOwned(ctx context.Context, ownerID uint) ([]domain.Event, error) {
	found, err := r.dao.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListOwned -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDaoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Event, error) {
	updated, err := r.dao.UpdateOwned(ctx, id, ownerID, fields)
	if err != nil {
		if errors.Is(err, dao.ErrJoinCodeExists) {
			return domain.Event{}, &domain.PersistenceError{
				Entity: "event",
				Reason: "join code already in use",
				Err:    err,
			}
		}

		return domain.Event{}, mapEventErr(err, id)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id, ownerID uint) error {
	if err := r.dao.DeleteOwned(ctx, id, ownerID); err != nil {
		return fmt.Errorf("r.dao.DeleteOwned -> %w", err)
	}

	return nil
}

func (r *EventRepository) Transition(ctx context.Context, id, actorID uint, to domain.Status) (domain.Event, error) {
	moved, err := r.dao.Transition(ctx, id, actorID, to)
	if err != nil {
		return domain.Event{}, mapEventErr(err, id)
	}

	return eventDaoToDomain(moved), nil
}

func mapEventErr(err error, id uint) error {
	if errors.Is(err, dao.ErrEventNotFound) {
		return &domain.NotFoundError{Entity: "event", ID: id}
	}

	var invalid *domain.InvalidTransitionError
	var conflict *domain.ConflictError
	if errors.As(err, &invalid) || errors.As(err, &conflict) {
		return err
	}

	return fmt.Errorf("event dao -> %w", err)
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:        e.ID,
		Name:      e.Name,
		Schedule:  e.Schedule,
		Status:    domain.NormalizeStatus(e.Status),
		JoinCode:  e.JoinCode,
		CreatedBy: e.CreatedBy,
		UpdatedBy: e.UpdatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

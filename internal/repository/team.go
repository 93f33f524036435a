package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type TeamDAO interface {
	Insert(ctx context.Context, team dao.Team) (dao.Team, error)
	FindByID(ctx context.Context, id uint) (dao.Team, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.Team, error)
	Delete(ctx context.Context, id uint) error
}

type TeamRepository struct {
	dao TeamDAO
}

func NewTeamRepository(dao TeamDAO) *TeamRepository {
	return &TeamRepository{
		dao: dao,
	}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.Insert(ctx, dao.Team{
		EventID: team.EventID,
		Name:    team.Name,
	})
	if err != nil {
		if errors.Is(err, dao.ErrTeamNameExists) {
			return domain.Team{}, &domain.PersistenceError{
				Entity: "team",
				Reason: "team name already taken in this event",
				Err:    err,
			}
		}

		return domain.Team{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return teamDaoToDomain(created), nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrTeamNotFound) {
			return domain.Team{}, &domain.NotFoundError{Entity: "team", ID: id}
		}

		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return teamDaoToDomain(found), nil
}

func (r *TeamRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Team, error) {
	found, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	teams := make([]domain.Team, 0, len(found))
	for _, t := range found {
		teams = append(teams, teamDaoToDomain(t))
	}

	return teams, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func teamDaoToDomain(t dao.Team) domain.Team {
	return domain.Team{
		ID:        t.ID,
		EventID:   t.EventID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

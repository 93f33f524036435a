package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type ResponseDAO interface {
	Insert(ctx context.Context, response dao.Response) (dao.Response, error)
	FindByID(ctx context.Context, id uint) (dao.Response, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]dao.Response, error)
	Grade(ctx context.Context, id, ownerID uint, isCorrect bool) (dao.Response, error)
	SumPointsByTeam(ctx context.Context, eventID uint) ([]dao.StandingRow, error)
}

type ResponseRepository struct {
	dao ResponseDAO
}

func NewResponseRepository(dao ResponseDAO) *ResponseRepository {
	return &ResponseRepository{
		dao: dao,
	}
}

func (r *ResponseRepository) Create(ctx context.Context, response domain.Response) (domain.Response, error) {
	created, err := r.dao.Insert(ctx, dao.Response{
		QuestionID:          response.QuestionID,
		TeamID:              response.TeamID,
		SubmittedAnswer:     response.SubmittedAnswer,
		ResponseTimeSeconds: response.ResponseTimeSeconds,
	})
	if err != nil {
		if errors.Is(err, dao.ErrDuplicateResponse) {
			return domain.Response{}, &domain.PersistenceError{
				Entity: "response",
				Reason: "team already answered this question",
				Err:    err,
			}
		}

		return domain.Response{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return responseDaoToDomain(created), nil
}

func (r *ResponseRepository) FindByID(ctx context.Context, id uint) (domain.Response, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrResponseNotFound) {
			return domain.Response{}, &domain.NotFoundError{Entity: "response", ID: id}
		}

		return domain.Response{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return responseDaoToDomain(found), nil
}

func (r *ResponseRepository) ListByQuestion(ctx context.Context, questionID uint) ([]domain.Response, error) {
	found, err := r.dao.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByQuestion -> %w", err)
	}

	responses := make([]domain.Response, 0, len(found))
	for _, resp := range found {
		responses = append(responses, responseDaoToDomain(resp))
	}

	return responses, nil
}

func (r *ResponseRepository) Grade(ctx context.Context, id, ownerID uint, isCorrect bool) (domain.Response, error) {
	graded, err := r.dao.Grade(ctx, id, ownerID, isCorrect)
	if err != nil {
		if errors.Is(err, dao.ErrResponseNotFound) {
			return domain.Response{}, &domain.NotFoundError{Entity: "response", ID: id}
		}

		return domain.Response{}, fmt.Errorf("r.dao.Grade -> %w", err)
	}

	return responseDaoToDomain(graded), nil
}

// Standings recomputes the leaderboard from raw rows on every call.
// There is deliberately no cached or incremental total anywhere.
func (r *ResponseRepository) Standings(ctx context.Context, eventID uint) ([]domain.Standing, error) {
	rows, err := r.dao.SumPointsByTeam(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SumPointsByTeam -> %w", err)
	}

	standings := make([]domain.Standing, 0, len(rows))
	for i, row := range rows {
		standings = append(standings, domain.Standing{
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			TotalPoints: row.TotalPoints,
			Rank:        i + 1,
		})
	}

	return standings, nil
}

func responseDaoToDomain(resp dao.Response) domain.Response {
	return domain.Response{
		ID:                  resp.ID,
		QuestionID:          resp.QuestionID,
		TeamID:              resp.TeamID,
		SubmittedAnswer:     resp.SubmittedAnswer,
		IsCorrect:           resp.IsCorrect,
		PointsAwarded:       resp.PointsAwarded,
		ResponseTimeSeconds: resp.ResponseTimeSeconds,
		CreatedAt:           resp.CreatedAt,
		UpdatedAt:           resp.UpdatedAt,
	}
}

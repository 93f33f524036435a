package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type QuestionDAO interface {
	Insert(ctx context.Context, question dao.Question, ownerID uint) (dao.Question, error)
	FindByID(ctx context.Context, id uint) (dao.Question, error)
	FindOwned(ctx context.Context, id, ownerID uint) (dao.Question, error)
	ListByRound(ctx context.Context, roundID uint) ([]dao.Question, error)
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (dao.Question, error)
	Delete(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, ownerID uint, to domain.Status) (dao.Question, error)
}

type QuestionRepository struct {
	dao QuestionDAO
}

func NewQuestionRepository(dao QuestionDAO) *QuestionRepository {
	return &QuestionRepository{
		dao: dao,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, question domain.Question, ownerID uint) (domain.Question, error) {
	created, err := r.dao.Insert(ctx, dao.Question{
		RoundID:          question.RoundID,
		QuestionText:     question.QuestionText,
		CorrectAnswer:    question.CorrectAnswer,
		Points:           question.Points,
		TimeLimitSeconds: question.TimeLimitSeconds,
	}, ownerID)
	if err != nil {
		if errors.Is(err, dao.ErrRoundNotFound) {
			return domain.Question{}, &domain.NotFoundError{Entity: "round", ID: question.RoundID}
		}
		if errors.Is(err, dao.ErrSequenceConflict) {
			return domain.Question{}, &domain.PersistenceError{
				Entity: "question",
				Reason: "sequence number already taken",
				Err:    err,
			}
		}

		return domain.Question{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return questionDaoToDomain(created), nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (domain.Question, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, mapQuestionErr(err, id)
	}

	return questionDaoToDomain(found), nil
}

func (r *QuestionRepository) FindOwned(ctx context.Context, id, ownerID uint) (domain.Question, error) {
	found, err := r.dao.FindOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Question{}, mapQuestionErr(err, id)
	}

	return questionDaoToDomain(found), nil
}

func (r *QuestionRepository) ListByRound(ctx context.Context, roundID uint) ([]domain.Question, error) {
	found, err := r.dao.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByRound -> %w", err)
	}

	questions := make([]domain.Question, 0, len(found))
	for _, q := range found {
		questions = append(questions, questionDaoToDomain(q))
	}

	return questions, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Question, error) {
	updated, err := r.dao.Update(ctx, id, ownerID, fields)
	if err != nil {
		return domain.Question{}, mapQuestionErr(err, id)
	}

	return questionDaoToDomain(updated), nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id, ownerID uint) error {
	if err := r.dao.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *QuestionRepository) Transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Question, error) {
	moved, err := r.dao.Transition(ctx, id, ownerID, to)
	if err != nil {
		return domain.Question{}, mapQuestionErr(err, id)
	}

	return questionDaoToDomain(moved), nil
}

func mapQuestionErr(err error, id uint) error {
	if errors.Is(err, dao.ErrQuestionNotFound) {
		return &domain.NotFoundError{Entity: "question", ID: id}
	}

	var invalid *domain.InvalidTransitionError
	var conflict *domain.ConflictError
	if errors.As(err, &invalid) || errors.As(err, &conflict) {
		return err
	}

	return fmt.Errorf("question dao -> %w", err)
}

func questionDaoToDomain(q dao.Question) domain.Question {
	return domain.Question{
		ID:               q.ID,
		RoundID:          q.RoundID,
		QuestionText:     q.QuestionText,
		CorrectAnswer:    q.CorrectAnswer,
		Points:           q.Points,
		SequenceNumber:   q.SequenceNumber,
		Status:           domain.NormalizeStatus(q.Status),
		TimeLimitSeconds: q.TimeLimitSeconds,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

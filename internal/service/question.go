package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

type QuestionRepository interface {
	Create(ctx context.Context, question domain.Question, ownerID uint) (domain.Question, error)
	FindByID(ctx context.Context, id uint) (domain.Question, error)
	FindOwned(ctx context.Context, id, ownerID uint) (domain.Question, error)
	ListByRound(ctx context.Context, roundID uint) ([]domain.Question, error)
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Question, error)
	Delete(ctx context.Context, id, ownerID uint) error
	Transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Question, error)
}

// QuestionAdvance mirrors RoundAdvance for questions within one round.
type QuestionAdvance struct {
	Completed domain.Question  `json:"completed"`
	Activated *domain.Question `json:"activated,omitempty"`
	Advanced  bool             `json:"advanced"`
}

type QuestionService struct {
	repo      QuestionRepository
	roundRepo RoundRepository
	broker    *realtime.Broker
}

func NewQuestionService(repo QuestionRepository, roundRepo RoundRepository, broker *realtime.Broker) *QuestionService {
	return &QuestionService{
		repo:      repo,
		roundRepo: roundRepo,
		broker:    broker,
	}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question domain.Question, ownerID uint) (domain.Question, error) {
	created, err := s.repo.Create(ctx, question, ownerID)
	if err != nil {
		return domain.Question{}, err
	}

	s.notify(ctx, created)

	return created, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (domain.Question, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *QuestionService) ListQuestions(ctx context.Context, roundID uint) ([]domain.Question, error) {
	questions, err := s.repo.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByRound -> %w", err)
	}

	return questions, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id, ownerID uint, fields map[string]any) (domain.Question, error) {
	updated, err := s.repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		return domain.Question{}, err
	}

	s.notify(ctx, updated)

	return updated, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id, ownerID uint) error {
	question, err := s.repo.FindOwned(ctx, id, ownerID)
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

	s.notify(ctx, question)

	return nil
}

// StartQuestion activates a question. The store enforces the gate
// (owning round ongoing), the single-active-question invariant and the
// caller's ownership atomically.
func (s *QuestionService) StartQuestion(ctx context.Context, id, ownerID uint) (domain.Question, error) {
	return s.transition(ctx, id, ownerID, domain.StatusOngoing)
}

func (s *QuestionService) CompleteQuestion(ctx context.Context, id, ownerID uint) (domain.Question, error) {
	return s.transition(ctx, id, ownerID, domain.StatusCompleted)
}

func (s *QuestionService) transition(ctx context.Context, id, ownerID uint, to domain.Status) (domain.Question, error) {
	moved, err := s.repo.Transition(ctx, id, ownerID, to)
	if err != nil {
		return domain.Question{}, err
	}

	zap.L().Info("question transitioned",
		zap.Uint("question", id),
		zap.String("status", string(to)))
	s.notify(ctx, moved)

	return moved, nil
}

// AdvanceQuestion completes the round's ongoing question and activates
// the next pending one by ascending sequence number. The completion
// commits even when nothing can be activated afterwards.
func (s *QuestionService) AdvanceQuestion(ctx context.Context, roundID, ownerID uint) (QuestionAdvance, error) {
	questions, err := s.repo.ListByRound(ctx, roundID)
	if err != nil {
		return QuestionAdvance{}, fmt.Errorf("s.repo.ListByRound -> %w", err)
	}

	var current *domain.Question
	for i := range questions {
		if questions[i].Status == domain.StatusOngoing {
			current = &questions[i]
			break
		}
	}
	if current == nil {
		return QuestionAdvance{}, &domain.ConflictError{
			Entity: "question",
			Reason: "no question is ongoing in this round",
		}
	}

	completed, err := s.transition(ctx, current.ID, ownerID, domain.StatusCompleted)
	if err != nil {
		return QuestionAdvance{}, err
	}

	var next *domain.Question
	for i := range questions {
		if questions[i].SequenceNumber > completed.SequenceNumber && questions[i].Status == domain.StatusPending {
			next = &questions[i]
			break
		}
	}
	if next == nil {
		return QuestionAdvance{Completed: completed}, nil
	}

	activated, err := s.transition(ctx, next.ID, ownerID, domain.StatusOngoing)
	if err != nil {
		return QuestionAdvance{Completed: completed}, err
	}

	return QuestionAdvance{Completed: completed, Activated: &activated, Advanced: true}, nil
}

func (s *QuestionService) notify(ctx context.Context, question domain.Question) {
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeQuestion, ID: question.ID})
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeRound, ID: question.RoundID})

	round, err := s.roundRepo.FindByID(ctx, question.RoundID)
	if err != nil {
		return
	}
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeEvent, ID: round.EventID})
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
)

type ResponseRepository interface {
	Create(ctx context.Context, response domain.Response) (domain.Response, error)
	FindByID(ctx context.Context, id uint) (domain.Response, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]domain.Response, error)
	Grade(ctx context.Context, id, ownerID uint, isCorrect bool) (domain.Response, error)
	Standings(ctx context.Context, eventID uint) ([]domain.Standing, error)
}

// ScoringService covers answer intake, grading and the leaderboard.
// Totals are recomputed from response rows on every read; there is no
// running counter to corrupt when a grader changes a verdict.
type ScoringService struct {
	repo         ResponseRepository
	questionRepo QuestionRepository
	broker       *realtime.Broker
}

func NewScoringService(repo ResponseRepository, questionRepo QuestionRepository, broker *realtime.Broker) *ScoringService {
	return &ScoringService{
		repo:         repo,
		questionRepo: questionRepo,
		broker:       broker,
	}
}

// SubmitResponse records a team's answer to a question. The answer is
// immutable afterwards; only the grading fields may change.
func (s *ScoringService) SubmitResponse(ctx context.Context, response domain.Response) (domain.Response, error) {
	question, err := s.questionRepo.FindByID(ctx, response.QuestionID)
	if err != nil {
		return domain.Response{}, err
	}

	created, err := s.repo.Create(ctx, response)
	if err != nil {
		return domain.Response{}, err
	}

	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeQuestion, ID: question.ID})
	s.broker.Notify(realtime.Scope{Kind: realtime.ScopeRound, ID: question.RoundID})

	return created, nil
}

// ListResponses returns a question's responses partitioned into
// pending/correct/incorrect buckets for the grader view.
func (s *ScoringService) ListResponses(ctx context.Context, questionID uint) (domain.ResponseBuckets, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return domain.ResponseBuckets{}, err
	}

	responses, err := s.repo.ListByQuestion(ctx, questionID)
	if err != nil {
		return domain.ResponseBuckets{}, fmt.Errorf("s.repo.ListByQuestion -> %w", err)
	}

	return domain.PartitionResponses(responses), nil
}

// Grade applies a verdict. Re-applying the same verdict is a no-op for
// every total; a different verdict is a correction that the next
// leaderboard read reflects exactly once. Only the event's organizer
// may grade; anyone else gets a not-found.
func (s *ScoringService) Grade(ctx context.Context, responseID, ownerID uint, isCorrect bool) (domain.Response, error) {
	graded, err := s.repo.Grade(ctx, responseID, ownerID, isCorrect)
	if err != nil {
		return domain.Response{}, err
	}

	zap.L().Info("response graded",
		zap.Uint("response", responseID),
		zap.Bool("correct", isCorrect))

	question, err := s.questionRepo.FindByID(ctx, graded.QuestionID)
	if err == nil {
		s.broker.Notify(realtime.Scope{Kind: realtime.ScopeQuestion, ID: question.ID})
		s.broker.Notify(realtime.Scope{Kind: realtime.ScopeRound, ID: question.RoundID})
	}

	return graded, nil
}

// Leaderboard recomputes standings from raw rows. Only correct
// responses whose owning round is completed contribute, so a round in
// progress never leaks relative standing.
func (s *ScoringService) Leaderboard(ctx context.Context, eventID uint) ([]domain.Standing, error) {
	standings, err := s.repo.Standings(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Standings -> %w", err)
	}

	return standings, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/trivia-live-api/internal/config"
	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

// defaultSuggestionPoints is used when the completion service replies
// in its legacy shape, which carries no point value.
const defaultSuggestionPoints = 10

// SuggestionService asks the completion endpoint for question ideas.
// It is strictly best-effort: any failure surfaces as an
// ExternalServiceError and never touches lifecycle state.
type SuggestionService struct {
	conf   *config.CompletionConfig
	client *http.Client
}

func NewSuggestionService(conf *config.CompletionConfig) *SuggestionService {
	return &SuggestionService{
		conf: conf,
		client: &http.Client{
			Timeout: time.Duration(conf.TimeoutSeconds) * time.Second,
		},
	}
}

type completionRequest struct {
	Prompt string `json:"prompt"`
}

// completionItem accepts both response shapes the completion service
// has used over time; Normalize picks whichever fields are set.
type completionItem struct {
	QuestionText  string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer"`
	Points        int    `json:"points"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
}

type completionResponse struct {
	Trivia []completionItem `json:"trivia"`
}

func (s *SuggestionService) Suggest(ctx context.Context, topic string) ([]domain.SuggestedQuestion, error) {
	payload, err := json.Marshal(completionRequest{
		Prompt: fmt.Sprintf("Generate trivia questions about %s", topic),
	})
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "completion", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.conf.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "completion", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "completion", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ExternalServiceError{
			Service: "completion",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body completionResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.ExternalServiceError{Service: "completion", Err: err}
	}

	suggestions := make([]domain.SuggestedQuestion, 0, len(body.Trivia))
	for _, item := range body.Trivia {
		normalized := normalizeSuggestion(item)
		if normalized.QuestionText == "" || normalized.CorrectAnswer == "" {
			continue
		}
		suggestions = append(suggestions, normalized)
	}

	zap.L().Info("completion service returned suggestions",
		zap.String("topic", topic),
		zap.Int("count", len(suggestions)))

	return suggestions, nil
}

func normalizeSuggestion(item completionItem) domain.SuggestedQuestion {
	normalized := domain.SuggestedQuestion{
		QuestionText:  item.QuestionText,
		CorrectAnswer: item.CorrectAnswer,
		Points:        item.Points,
	}

	// Legacy shape: {question, answer} with no points.
	if normalized.QuestionText == "" {
		normalized.QuestionText = item.Question
	}
	if normalized.CorrectAnswer == "" {
		normalized.CorrectAnswer = item.Answer
	}
	if normalized.Points <= 0 {
		normalized.Points = defaultSuggestionPoints
	}

	return normalized
}

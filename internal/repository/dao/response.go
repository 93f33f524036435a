package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrResponseNotFound  = errors.New("response not found")
	ErrDuplicateResponse = errors.New("team already answered this question")
)

type Response struct {
	ID                  uint   `gorm:"primaryKey"`
	QuestionID          uint   `gorm:"uniqueIndex:uni_responses_question_team;not null"`
	TeamID              uint   `gorm:"uniqueIndex:uni_responses_question_team;not null"`
	SubmittedAnswer     string `gorm:"not null"`
	IsCorrect           *bool
	PointsAwarded       *int
	ResponseTimeSeconds *int
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// StandingRow is the raw aggregation row behind the leaderboard.
type StandingRow struct {
	TeamID      uint
	TeamName    string
	TotalPoints int
}

type ResponseDAO struct {
	db *gorm.DB
}

func NewResponseDAO(db *gorm.DB) *ResponseDAO {
	return &ResponseDAO{
		db: db,
	}
}

func (d *ResponseDAO) Insert(ctx context.Context, response Response) (Response, error) {
	result := d.db.WithContext(ctx).Create(&response)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_responses_question_team") {
			return Response{}, ErrDuplicateResponse
		}

		return Response{}, result.Error
	}

	return response, nil
}

func (d *ResponseDAO) FindByID(ctx context.Context, id uint) (Response, error) {
	var response Response

	result := d.db.WithContext(ctx).First(&response, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Response{}, ErrResponseNotFound
		}

		return Response{}, result.Error
	}

	return response, nil
}

func (d *ResponseDAO) ListByQuestion(ctx context.Context, questionID uint) ([]Response, error) {
	var responses []Response

	result := d.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC, id ASC").
		Find(&responses)
	if result.Error != nil {
		return nil, result.Error
	}

	return responses, nil
}

// Grade sets the verdict and the awarded points in one transaction,
// reading the question's point value under the same lock. Setting the
// same verdict twice is a no-op; changing the verdict overwrites both
// fields, and totals are recomputed from rows so no correction can
// double-count. Only the organizer owning the event above the response
// may grade it; anyone else sees it as absent.
func (d *ResponseDAO) Grade(ctx context.Context, id, ownerID uint, isCorrect bool) (Response, error) {
	var response Response

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&response, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrResponseNotFound
			}

			return result.Error
		}

		var question Question
		if err := tx.First(&question, response.QuestionID).Error; err != nil {
			return err
		}

		var owned int64
		err := tx.Model(&Round{}).
			Where("id = ? AND event_id IN (?)", question.RoundID, ownedEventIDs(tx, ownerID)).
			Count(&owned).Error
		if err != nil {
			return err
		}
		if owned == 0 {
			return ErrResponseNotFound
		}

		awarded := 0
		if isCorrect {
			awarded = question.Points
		}

		response.IsCorrect = &isCorrect
		response.PointsAwarded = &awarded

		return tx.Model(&response).Updates(map[string]any{
			"is_correct":     isCorrect,
			"points_awarded": awarded,
		}).Error
	})
	if err != nil {
		return Response{}, err
	}

	return response, nil
}

// SumPointsByTeam recomputes every team's total from raw response rows:
// only correct responses whose owning round is completed count. Teams
// without a single qualifying response still appear, at zero. Ties
// break by team creation time, then id.
func (d *ResponseDAO) SumPointsByTeam(ctx context.Context, eventID uint) ([]StandingRow, error) {
	var rows []StandingRow

	err := d.db.WithContext(ctx).
		Table("teams t").
		Select(`t.id AS team_id, t.name AS team_name,
			COALESCE(SUM(CASE
				WHEN r.is_correct AND rd.status IN ('completed', 'COMPLETE')
				THEN r.points_awarded ELSE 0 END), 0) AS total_points`).
		Joins("LEFT JOIN responses r ON r.team_id = t.id").
		Joins("LEFT JOIN questions q ON q.id = r.question_id").
		Joins("LEFT JOIN rounds rd ON rd.id = q.round_id").
		Where("t.event_id = ?", eventID).
		Group("t.id, t.name, t.created_at").
		Order("total_points DESC, t.created_at ASC, t.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

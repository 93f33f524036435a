package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

var ErrQuestionNotFound = errors.New("question not found")

type Question struct {
	ID               uint   `gorm:"primaryKey"`
	RoundID          uint   `gorm:"uniqueIndex:uni_questions_round_seq;not null"`
	QuestionText     string `gorm:"not null"`
	CorrectAnswer    string `gorm:"not null"`
	Points           int    `gorm:"not null"`
	SequenceNumber   int    `gorm:"uniqueIndex:uni_questions_round_seq;not null"`
	Status           string `gorm:"not null;default:'pending'"`
	TimeLimitSeconds *int
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	Responses []Response `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type QuestionDAO struct {
	db *gorm.DB
}

func NewQuestionDAO(db *gorm.DB) *QuestionDAO {
	return &QuestionDAO{
		db: db,
	}
}

// Insert assigns the next sequence number under a lock on the owning
// round row, mirroring RoundDAO.Insert. A round under someone else's
// event reads as absent.
func (d *QuestionDAO) Insert(ctx context.Context, question Question, ownerID uint) (Question, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var round Round
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&round, "id = ? AND event_id IN (?)", question.RoundID, ownedEventIDs(tx, ownerID))
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}

			return result.Error
		}

		var maxSeq *int
		err := tx.Model(&Question{}).
			Where("round_id = ?", question.RoundID).
			Select("MAX(sequence_number)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}

		question.SequenceNumber = 1
		if maxSeq != nil {
			question.SequenceNumber = *maxSeq + 1
		}
		question.Status = string(domain.StatusPending)

		if err = tx.Create(&question).Error; err != nil {
			if isUniqueViolation(err, "uni_questions_round_seq") {
				return ErrSequenceConflict
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Question{}, err
	}

	return question, nil
}

func (d *QuestionDAO) FindByID(ctx context.Context, id uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

// FindOwned resolves a question only when the caller owns the event two
// levels up.
func (d *QuestionDAO) FindOwned(ctx context.Context, id, ownerID uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).
		First(&question, "id = ? AND round_id IN (?)", id, ownedRoundIDs(d.db, ownerID))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

func (d *QuestionDAO) ListByRound(ctx context.Context, roundID uint) ([]Question, error) {
	var questions []Question

	result := d.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("sequence_number ASC").
		Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}

	return questions, nil
}

func (d *QuestionDAO) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (Question, error) {
	delete(fields, "status")
	delete(fields, "sequence_number")

	result := d.db.WithContext(ctx).
		Model(&Question{}).
		Where("id = ? AND round_id IN (?)", id, ownedRoundIDs(d.db, ownerID)).
		Updates(fields)
	if result.Error != nil {
		return Question{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Question{}, ErrQuestionNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *QuestionDAO) Delete(ctx context.Context, id, ownerID uint) error {
	return d.db.WithContext(ctx).
		Where("round_id IN (?)", ownedRoundIDs(d.db, ownerID)).
		Delete(&Question{}, id).Error
}

// Transition mirrors RoundDAO.Transition scoped to the owning round:
// activation requires the round to be ongoing and no ongoing sibling
// question. A question under someone else's event reads as absent.
func (d *QuestionDAO) Transition(ctx context.Context, id, ownerID uint, to domain.Status) (Question, error) {
	var question Question

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&question, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}

			return result.Error
		}

		var round Round
		result = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&round, "id = ? AND event_id IN (?)", question.RoundID, ownedEventIDs(tx, ownerID))
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}

			return result.Error
		}

		from := domain.NormalizeStatus(question.Status)
		if !from.CanTransition(to) {
			return &domain.InvalidTransitionError{Entity: "question", From: from, To: to}
		}

		if to == domain.StatusOngoing {
			if domain.NormalizeStatus(round.Status) != domain.StatusOngoing {
				return &domain.InvalidTransitionError{
					Entity: "question",
					From:   from,
					To:     to,
					Reason: "owning round is not ongoing",
				}
			}

			var siblings []Question
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("round_id = ? AND id <> ? AND status IN ?", question.RoundID, question.ID,
					[]string{string(domain.StatusOngoing), "ONGOING"}).
				Find(&siblings).Error
			if err != nil {
				return err
			}
			if len(siblings) > 0 {
				return &domain.ConflictError{
					Entity: "question",
					Reason: "another question in this round is already ongoing",
				}
			}
		}

		question.Status = string(to)

		return tx.Model(&question).Update("status", string(to)).Error
	})
	if err != nil {
		return Question{}, err
	}

	return question, nil
}

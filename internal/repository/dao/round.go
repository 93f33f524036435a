package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

var (
	ErrRoundNotFound    = errors.New("round not found")
	ErrSequenceConflict = errors.New("sequence number already taken")
)

type Round struct {
	ID               uint   `gorm:"primaryKey"`
	EventID          uint   `gorm:"uniqueIndex:uni_rounds_event_seq;not null"`
	Name             string `gorm:"not null"`
	Description      string
	SequenceNumber   int    `gorm:"uniqueIndex:uni_rounds_event_seq;not null"`
	Status           string `gorm:"not null;default:'pending'"`
	TimeLimitSeconds *int
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	Questions []Question `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
}

type RoundDAO struct {
	db *gorm.DB
}

func NewRoundDAO(db *gorm.DB) *RoundDAO {
	return &RoundDAO{
		db: db,
	}
}

// ownedRoundIDs scopes question mutations the same way ownedEventIDs
// scopes round mutations, one level down.
func ownedRoundIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&Round{}).Select("id").Where("event_id IN (?)", ownedEventIDs(db, ownerID))
}

// Insert assigns the next sequence number under a lock on the owning
// event row, so concurrent creations in one event serialize and never
// collide. Numbers are never reused after a delete; gaps are fine. An
// event owned by someone else reads as absent.
func (d *RoundDAO) Insert(ctx context.Context, round Round, ownerID uint) (Round, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ? AND created_by = ?", round.EventID, ownerID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return result.Error
		}

		var maxSeq *int
		err := tx.Model(&Round{}).
			Where("event_id = ?", round.EventID).
			Select("MAX(sequence_number)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}

		round.SequenceNumber = 1
		if maxSeq != nil {
			round.SequenceNumber = *maxSeq + 1
		}
		round.Status = string(domain.StatusPending)

		if err = tx.Create(&round).Error; err != nil {
			if isUniqueViolation(err, "uni_rounds_event_seq") {
				return ErrSequenceConflict
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Round{}, err
	}

	return round, nil
}

func (d *RoundDAO) FindByID(ctx context.Context, id uint) (Round, error) {
	var round Round

	result := d.db.WithContext(ctx).First(&round, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Round{}, ErrRoundNotFound
		}

		return Round{}, result.Error
	}

	return round, nil
}

// FindOwned resolves a round only when the caller owns the event above
// it, mirroring EventDAO.FindOwned one level down.
func (d *RoundDAO) FindOwned(ctx context.Context, id, ownerID uint) (Round, error) {
	var round Round

	result := d.db.WithContext(ctx).
		First(&round, "id = ? AND event_id IN (?)", id, ownedEventIDs(d.db, ownerID))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Round{}, ErrRoundNotFound
		}

		return Round{}, result.Error
	}

	return round, nil
}

func (d *RoundDAO) ListByEvent(ctx context.Context, eventID uint) ([]Round, error) {
	var rounds []Round

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sequence_number ASC").
		Find(&rounds)
	if result.Error != nil {
		return nil, result.Error
	}

	return rounds, nil
}

func (d *RoundDAO) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (Round, error) {
	delete(fields, "status")
	delete(fields, "sequence_number")

	result := d.db.WithContext(ctx).
		Model(&Round{}).
		Where("id = ? AND event_id IN (?)", id, ownedEventIDs(d.db, ownerID)).
		Updates(fields)
	if result.Error != nil {
		return Round{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Round{}, ErrRoundNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *RoundDAO) Delete(ctx context.Context, id, ownerID uint) error {
	return d.db.WithContext(ctx).
		Where("event_id IN (?)", ownedEventIDs(d.db, ownerID)).
		Delete(&Round{}, id).Error
}

// Transition moves a round through its lifecycle inside one
// transaction. Activation locks the sibling rounds of the event, so two
// rounds can never go ongoing at once, and requires the owning event to
// be ongoing itself. A round under someone else's event reads as
// absent.
func (d *RoundDAO) Transition(ctx context.Context, id, ownerID uint, to domain.Status) (Round, error) {
	var round Round

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&round, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}

			return result.Error
		}

		var event Event
		result = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ? AND created_by = ?", round.EventID, ownerID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}

			return result.Error
		}

		from := domain.NormalizeStatus(round.Status)
		if !from.CanTransition(to) {
			return &domain.InvalidTransitionError{Entity: "round", From: from, To: to}
		}

		if to == domain.StatusOngoing {
			if domain.NormalizeStatus(event.Status) != domain.StatusOngoing {
				return &domain.InvalidTransitionError{
					Entity: "round",
					From:   from,
					To:     to,
					Reason: "owning event is not ongoing",
				}
			}

			var siblings []Round
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("event_id = ? AND id <> ? AND status IN ?", round.EventID, round.ID,
					[]string{string(domain.StatusOngoing), "ONGOING"}).
				Find(&siblings).Error
			if err != nil {
				return err
			}
			if len(siblings) > 0 {
				return &domain.ConflictError{
					Entity: "round",
					Reason: "another round in this event is already ongoing",
				}
			}
		}

		round.Status = string(to)

		return tx.Model(&round).Update("status", string(to)).Error
	})
	if err != nil {
		return Round{}, err
	}

	return round, nil
}

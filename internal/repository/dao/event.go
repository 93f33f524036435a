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
	ErrEventNotFound     = errors.New("event not found")
	ErrJoinCodeExists    = errors.New("join code already in use")
	ErrUnknownStatusRow  = errors.New("row carries an unknown status value")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

type Event struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Schedule  time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;default:'pending'"`
	JoinCode  string    `gorm:"uniqueIndex:uni_events_join_code;not null"`
	CreatedBy uint      `gorm:"index;not null"`
	UpdatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Rounds []Round `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Teams  []Team  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_events_join_code") {
			return Event{}, ErrJoinCodeExists
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindOwned(ctx context.Context, id, ownerID uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "id = ? AND created_by = ?", id, ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// ownedEventIDs builds the id subquery that scopes child-entity
// mutations to one organizer's events.
func ownedEventIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&Event{}).Select("id").Where("created_by = ?", ownerID)
}

func (d *EventDAO) FindByJoinCode(ctx context.Context, joinCode string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "join_code = ?", joinCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) ListOwned(ctx context.Context, ownerID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("schedule ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// UpdateOwned applies a partial update scoped to the owning organizer
// and returns the refreshed row. Status is never touched here; lifecycle
// moves go through Transition.
func (d *EventDAO) UpdateOwned(ctx context.Context, id, ownerID uint, fields map[string]any) (Event, error) {
	delete(fields, "status")
	fields["updated_by"] = ownerID

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND created_by = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_events_join_code") {
			return Event{}, ErrJoinCodeExists
		}

		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}

// DeleteOwned removes an event and, via FK constraints, its rounds,
// questions, teams and responses. Deleting an absent event succeeds.
func (d *EventDAO) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	result := d.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Delete(&Event{}, id)

	return result.Error
}

// Transition moves an event to the requested status under a row lock so
// concurrent callers cannot race the same transition. Completing an
// event is allowed regardless of child round states.
func (d *EventDAO) Transition(ctx context.Context, id, actorID uint, to domain.Status) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return result.Error
		}

		from := domain.NormalizeStatus(event.Status)
		if !from.CanTransition(to) {
			return &domain.InvalidTransitionError{Entity: "event", From: from, To: to}
		}

		event.Status = string(to)
		event.UpdatedBy = actorID

		return tx.Model(&event).Updates(map[string]any{
			"status":     string(to),
			"updated_by": actorID,
		}).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

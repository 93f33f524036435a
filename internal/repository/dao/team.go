package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrTeamNameExists = errors.New("team name already taken in this event")
)

type Team struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"uniqueIndex:uni_teams_event_name;not null"`
	Name      string    `gorm:"uniqueIndex:uni_teams_event_name;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Responses []Response `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

type TeamDAO struct {
	db *gorm.DB
}

func NewTeamDAO(db *gorm.DB) *TeamDAO {
	return &TeamDAO{
		db: db,
	}
}

func (d *TeamDAO) Insert(ctx context.Context, team Team) (Team, error) {
	result := d.db.WithContext(ctx).Create(&team)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_teams_event_name") {
			return Team{}, ErrTeamNameExists
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) ListByEvent(ctx context.Context, eventID uint) ([]Team, error) {
	var teams []Team

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *TeamDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Team{}, id).Error
}

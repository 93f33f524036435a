package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
)

type fakeResponseDAO struct {
	response dao.Response
	rows     []dao.StandingRow
	err      error
}

func (f *fakeResponseDAO) Insert(ctx context.Context, response dao.Response) (dao.Response, error) {
	return f.response, f.err
}

func (f *fakeResponseDAO) FindByID(ctx context.Context, id uint) (dao.Response, error) {
	return f.response, f.err
}

func (f *fakeResponseDAO) ListByQuestion(ctx context.Context, questionID uint) ([]dao.Response, error) {
	return []dao.Response{f.response}, f.err
}

func (f *fakeResponseDAO) Grade(ctx context.Context, id, ownerID uint, isCorrect bool) (dao.Response, error) {
	return f.response, f.err
}

func (f *fakeResponseDAO) SumPointsByTeam(ctx context.Context, eventID uint) ([]dao.StandingRow, error) {
	return f.rows, f.err
}

func TestStandingsAssignsRanksInRowOrder(t *testing.T) {
	repo := NewResponseRepository(&fakeResponseDAO{
		rows: []dao.StandingRow{
			{TeamID: 3, TeamName: "Bravo", TotalPoints: 50},
			{TeamID: 1, TeamName: "Alpha", TotalPoints: 50},
			{TeamID: 2, TeamName: "Charlie", TotalPoints: 0},
		},
	})

	standings, err := repo.Standings(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, uint(3), standings[0].TeamID)
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 3, standings[2].Rank)
}

func TestResponseRepositoryMapsDuplicate(t *testing.T) {
	repo := NewResponseRepository(&fakeResponseDAO{err: dao.ErrDuplicateResponse})

	_, err := repo.Create(context.Background(), domain.Response{QuestionID: 1, TeamID: 1})

	var persist *domain.PersistenceError
	require.ErrorAs(t, err, &persist)
}

func TestResponseRepositoryMapsNotFoundOnGrade(t *testing.T) {
	repo := NewResponseRepository(&fakeResponseDAO{err: dao.ErrResponseNotFound})

	_, err := repo.Grade(context.Background(), 7, 1, true)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(7), notFound.ID)
}

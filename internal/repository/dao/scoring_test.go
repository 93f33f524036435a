package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/trivia-live-api/internal/domain"
)

func insertTeam(t *testing.T, eventID uint, name string) Team {
	t.Helper()
	team, err := NewTeamDAO(testDB).Insert(context.Background(), Team{
		EventID: eventID,
		Name:    name,
	})
	require.NoError(t, err)

	return team
}

func insertResponse(t *testing.T, questionID, teamID uint, answer string) Response {
	t.Helper()
	response, err := NewResponseDAO(testDB).Insert(context.Background(), Response{
		QuestionID:      questionID,
		TeamID:          teamID,
		SubmittedAnswer: answer,
	})
	require.NoError(t, err)

	return response
}

func TestDuplicateResponseRejected(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	event := insertEvent(t, domain.StatusOngoing)
	round := insertRound(t, event.ID, domain.StatusOngoing)
	question := insertQuestion(t, round.ID, 10, domain.StatusOngoing)
	team := insertTeam(t, event.ID, "The Quizzards")

	insertResponse(t, question.ID, team.ID, "Paris")

	_, err := NewResponseDAO(testDB).Insert(ctx, Response{
		QuestionID:      question.ID,
		TeamID:          team.ID,
		SubmittedAnswer: "Lyon",
	})
	require.ErrorIs(t, err, ErrDuplicateResponse)

	// The first answer stands untouched.
	responses, err := NewResponseDAO(testDB).ListByQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "Paris", responses[0].SubmittedAnswer)
}

func TestGradeAndRegrade(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	d := NewResponseDAO(testDB)

	event := insertEvent(t, domain.StatusOngoing)
	round := insertRound(t, event.ID, domain.StatusOngoing)
	question := insertQuestion(t, round.ID, 30, domain.StatusOngoing)
	team := insertTeam(t, event.ID, "The Quizzards")
	response := insertResponse(t, question.ID, team.ID, "Paris")

	graded, err := d.Grade(ctx, response.ID, 1, true)
	require.NoError(t, err)
	require.NotNil(t, graded.IsCorrect)
	assert.True(t, *graded.IsCorrect)
	assert.Equal(t, 30, *graded.PointsAwarded)

	// Same verdict again changes nothing.
	graded, err = d.Grade(ctx, response.ID, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 30, *graded.PointsAwarded)

	// Reversal zeroes the award.
	graded, err = d.Grade(ctx, response.ID, 1, false)
	require.NoError(t, err)
	assert.False(t, *graded.IsCorrect)
	assert.Equal(t, 0, *graded.PointsAwarded)

	// And back: the full round trip restores the original award.
	graded, err = d.Grade(ctx, response.ID, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 30, *graded.PointsAwarded)

	_, err = d.Grade(ctx, 9999, 1, true)
	require.ErrorIs(t, err, ErrResponseNotFound)
}

func TestGradeScopesToOwner(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	d := NewResponseDAO(testDB)

	event := insertEvent(t, domain.StatusOngoing)
	round := insertRound(t, event.ID, domain.StatusOngoing)
	question := insertQuestion(t, round.ID, 30, domain.StatusOngoing)
	team := insertTeam(t, event.ID, "The Quizzards")
	response := insertResponse(t, question.ID, team.ID, "Paris")

	// An organizer who does not own the event sees the response as
	// absent and leaves no verdict behind.
	_, err := d.Grade(ctx, response.ID, 99, true)
	require.ErrorIs(t, err, ErrResponseNotFound)

	ungraded, err := d.FindByID(ctx, response.ID)
	require.NoError(t, err)
	assert.Nil(t, ungraded.IsCorrect)
	assert.Nil(t, ungraded.PointsAwarded)
}

func TestSumPointsByTeam(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	d := NewResponseDAO(testDB)

	event := insertEvent(t, domain.StatusOngoing)

	completedRound := insertRound(t, event.ID, domain.StatusCompleted)
	ongoingRound := insertRound(t, event.ID, domain.StatusOngoing)

	gradedQ := insertQuestion(t, completedRound.ID, 20, domain.StatusCompleted)
	liveQ := insertQuestion(t, ongoingRound.ID, 50, domain.StatusOngoing)

	alpha := insertTeam(t, event.ID, "Alpha")
	bravo := insertTeam(t, event.ID, "Bravo")
	charlie := insertTeam(t, event.ID, "Charlie")

	// Alpha and bravo both answer the completed round's question
	// correctly; bravo also leads the ongoing round, which must not
	// count yet.
	aResp := insertResponse(t, gradedQ.ID, alpha.ID, "Paris")
	bResp := insertResponse(t, gradedQ.ID, bravo.ID, "Paris")
	bLive := insertResponse(t, liveQ.ID, bravo.ID, "Jupiter")

	_, err := d.Grade(ctx, aResp.ID, 1, true)
	require.NoError(t, err)
	_, err = d.Grade(ctx, bResp.ID, 1, true)
	require.NoError(t, err)
	_, err = d.Grade(ctx, bLive.ID, 1, true)
	require.NoError(t, err)

	rows, err := d.SumPointsByTeam(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Alpha and bravo tie at 20; alpha registered first and wins the
	// tie. Charlie never answered and still appears at zero.
	assert.Equal(t, alpha.ID, rows[0].TeamID)
	assert.Equal(t, 20, rows[0].TotalPoints)
	assert.Equal(t, bravo.ID, rows[1].TeamID)
	assert.Equal(t, 20, rows[1].TotalPoints)
	assert.Equal(t, charlie.ID, rows[2].TeamID)
	assert.Equal(t, 0, rows[2].TotalPoints)

	// Completing the ongoing round folds its points in.
	forceStatus(t, &Round{}, ongoingRound.ID, domain.StatusCompleted)

	rows, err = d.SumPointsByTeam(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, bravo.ID, rows[0].TeamID)
	assert.Equal(t, 70, rows[0].TotalPoints)
}

func TestSumPointsByTeamCountsLegacyCompleteRounds(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	d := NewResponseDAO(testDB)

	event := insertEvent(t, domain.StatusOngoing)
	legacyRound := insertRound(t, event.ID, domain.Status("COMPLETE"))
	question := insertQuestion(t, legacyRound.ID, 15, domain.StatusCompleted)
	team := insertTeam(t, event.ID, "Veterans")

	response := insertResponse(t, question.ID, team.ID, "Paris")
	_, err := d.Grade(ctx, response.ID, 1, true)
	require.NoError(t, err)

	rows, err := d.SumPointsByTeam(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 15, rows[0].TotalPoints)
}

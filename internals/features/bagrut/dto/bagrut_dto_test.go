package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conservatory_backend/internals/features/bagrut/engine"
)

func fp(v float64) *float64 { return &v }

func TestApplyToPresentation_DerivesGradeLevel(t *testing.T) {
	msgs := engine.DefaultMessages()
	p := engine.EmptyPresentation()

	completed := true
	status := engine.PresStatusExamined
	req := UpdatePresentationRequest{
		Completed: &completed,
		Status:    &status,
		Grade:     fp(88),
	}
	req.ApplyToPresentation(&p, msgs)

	assert.True(t, p.Completed)
	assert.Equal(t, engine.PresStatusExamined, p.Status)
	require.NotNil(t, p.Grade)
	assert.Equal(t, 88.0, *p.Grade)
	// Band always recomputed from the grade, never client-supplied.
	assert.Equal(t, "טוב מאוד", p.GradeLevel)
}

func TestApplyToPresentation_PartialUpdateKeepsRest(t *testing.T) {
	msgs := engine.DefaultMessages()
	p := engine.Presentation{
		Completed:  true,
		Status:     engine.PresStatusCompleted,
		Grade:      fp(70),
		GradeLevel: msgs.GradeLevelFor(70),
		Review:     "ביצוע יציב",
	}

	notes := "להוסיף יצירה שלישית"
	req := UpdatePresentationRequest{Notes: &notes}
	req.ApplyToPresentation(&p, msgs)

	assert.Equal(t, "להוסיף יצירה שלישית", p.Notes)
	assert.True(t, p.Completed)
	assert.Equal(t, "ביצוע יציב", p.Review)
	require.NotNil(t, p.Grade)
	assert.Equal(t, 70.0, *p.Grade)
}

func TestDetailedGradingRequest_ToEngine(t *testing.T) {
	comment := "שליטה טובה"
	req := DetailedGradingRequest{
		PlayingSkills:        CategoryScoreRequest{Points: fp(36), Comments: &comment},
		MusicalUnderstanding: CategoryScoreRequest{Points: fp(27)},
		TextKnowledge:        CategoryScoreRequest{Points: fp(18)},
		PlayingByHeart:       CategoryScoreRequest{},
	}

	dg := req.ToEngine()
	assert.Equal(t, float64(engine.MaxPlayingSkills), dg.PlayingSkills.MaxPoints)
	assert.Equal(t, float64(engine.MaxMusicalUnderstanding), dg.MusicalUnderstanding.MaxPoints)
	assert.Equal(t, float64(engine.MaxTextKnowledge), dg.TextKnowledge.MaxPoints)
	assert.Equal(t, float64(engine.MaxPlayingByHeart), dg.PlayingByHeart.MaxPoints)
	require.NotNil(t, dg.PlayingSkills.Points)
	assert.Equal(t, 36.0, *dg.PlayingSkills.Points)
	assert.Equal(t, "שליטה טובה", dg.PlayingSkills.Comments)
	assert.Nil(t, dg.PlayingByHeart.Points)
}

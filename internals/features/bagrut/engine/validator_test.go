package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecordWithGrading(points ...float64) *ExamRecord {
	rec := NewExamRecord("std-1", "tch-1", 3, "קלאסי")
	rec.Program = []ProgramPiece{{PieceTitle: "a"}, {PieceTitle: "b"}, {PieceTitle: "c"}}
	dg := &DetailedGrading{
		PlayingSkills:        CategoryScore{MaxPoints: MaxPlayingSkills},
		MusicalUnderstanding: CategoryScore{MaxPoints: MaxMusicalUnderstanding},
		TextKnowledge:        CategoryScore{MaxPoints: MaxTextKnowledge},
		PlayingByHeart:       CategoryScore{MaxPoints: MaxPlayingByHeart},
	}
	if len(points) == 4 {
		dg.PlayingSkills.Points = fp(points[0])
		dg.MusicalUnderstanding.Points = fp(points[1])
		dg.TextKnowledge.Points = fp(points[2])
		dg.PlayingByHeart.Points = fp(points[3])
	}
	rec.Presentations[MagenIndex].DetailedGrading = dg
	return rec
}

func TestValidate_CleanRecord(t *testing.T) {
	v := NewValidator(DefaultMessages())

	res := v.Validate(validRecordWithGrading(35, 28, 18, 9))
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	v := NewValidator(DefaultMessages())

	res := v.Validate(&ExamRecord{})
	assert.False(t, res.IsValid)
	// studentId, teacherId, recitalUnits, recitalField, presentation count
	assert.Len(t, res.Errors, 5)
}

func TestValidate_CategoryOverMax(t *testing.T) {
	v := NewValidator(DefaultMessages())

	// playingSkills 41 exceeds its 40-point cap.
	res := v.Validate(validRecordWithGrading(41, 20, 10, 5))
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "כישורי נגינה")
}

func TestValidate_TotalOverHundred(t *testing.T) {
	v := NewValidator(DefaultMessages())

	// Each category within its cap, sum 40+30+20+11... use caps exactly then
	// push playingByHeart over: caps sum to exactly 100, so exceed one
	// category to trip both checks.
	res := v.Validate(validRecordWithGrading(40, 30, 20, 11))
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 2) // category cap + total cap
}

func TestValidate_BelowPassingFloorIsWarningOnly(t *testing.T) {
	v := NewValidator(DefaultMessages())

	res := v.Validate(validRecordWithGrading(20, 15, 10, 5))
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "55")
}

func TestValidate_ProgramSizeFollowsUnits(t *testing.T) {
	v := NewValidator(DefaultMessages())

	// 3 units, 3 pieces: fine.
	rec := validRecordWithGrading(35, 28, 18, 9)
	assert.Empty(t, v.Validate(rec).Warnings)

	// 5 units demand 5 pieces.
	five := 5
	rec.RecitalUnits = &five
	res := v.Validate(rec)
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "5")
}

func TestValidate_NoGradingNoNumericChecks(t *testing.T) {
	v := NewValidator(DefaultMessages())

	rec := NewExamRecord("std-1", "tch-1", 3, "קלאסי")
	rec.Program = []ProgramPiece{{}, {}, {}}
	res := v.Validate(rec)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
}

func TestGradeLevelFor_BandsAreContiguous(t *testing.T) {
	msgs := DefaultMessages()

	cases := []struct {
		score float64
		band  string
	}{
		{100, "מעולה"}, {95, "מעולה"},
		{94.9, "טוב מאוד"}, {85, "טוב מאוד"},
		{84, "טוב"}, {75, "טוב"},
		{74, "כמעט טוב"}, {65, "כמעט טוב"},
		{64, "מספיק"}, {55, "מספיק"},
		{54, "כמעט מספיק"}, {45, "כמעט מספיק"},
		{44, "לא מספיק"}, {35, "לא מספיק"},
		{34, "נכשל"}, {0, "נכשל"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.band, msgs.GradeLevelFor(tc.score), "score %v", tc.score)
	}

	// Every 0..100 score lands in some band.
	for s := 0.0; s <= 100; s += 0.5 {
		assert.NotEmpty(t, msgs.GradeLevelFor(s))
	}
}

// For any grading the validator accepts, no category exceeds its cap and the
// total stays within 100.
func TestValidate_BoundsProperty(t *testing.T) {
	v := NewValidator(DefaultMessages())

	for a := 0.0; a <= 45; a += 15 {
		for b := 0.0; b <= 35; b += 10 {
			for c := 0.0; c <= 25; c += 10 {
				for d := 0.0; d <= 15; d += 5 {
					rec := validRecordWithGrading(a, b, c, d)
					res := v.Validate(rec)
					if !res.IsValid {
						continue
					}
					dg := rec.Presentations[MagenIndex].DetailedGrading
					assert.LessOrEqual(t, *dg.PlayingSkills.Points, float64(MaxPlayingSkills))
					assert.LessOrEqual(t, *dg.MusicalUnderstanding.Points, float64(MaxMusicalUnderstanding))
					assert.LessOrEqual(t, *dg.TextKnowledge.Points, float64(MaxTextKnowledge))
					assert.LessOrEqual(t, *dg.PlayingByHeart.Points, float64(MaxPlayingByHeart))
					total, _ := dg.TotalPoints()
					assert.LessOrEqual(t, total, 100.0)
				}
			}
		}
	}
}

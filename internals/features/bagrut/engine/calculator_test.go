package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func completedPresentation(grade float64) Presentation {
	return Presentation{Completed: true, Status: PresStatusCompleted, Grade: fp(grade)}
}

func TestCalculateFinalGrade_ThreeCompletedOneIncomplete(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(70),
		completedPresentation(80),
		completedPresentation(90),
		EmptyPresentation(),
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{})

	require.NotNil(t, res.FinalGrade)
	assert.InDelta(t, 80, *res.FinalGrade, 0.001)
	assert.Equal(t, "B", res.LetterGrade)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 3, res.PresentationsUsed)
	assert.True(t, res.IsComplete)
	assert.False(t, res.HasMagenBagrut)
}

func TestCalculateFinalGrade_TwoCompletedIsInProgress(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(50),
		completedPresentation(55),
		EmptyPresentation(),
		EmptyPresentation(),
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{})

	assert.Equal(t, StatusInProgress, res.Status)
	require.NotNil(t, res.FinalGrade)
	assert.InDelta(t, 52.5, *res.FinalGrade, 0.001)
}

func TestCalculateFinalGrade_NoValidPresentations(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	res := calc.CalculateFinalGrade([]Presentation{
		EmptyPresentation(), EmptyPresentation(), EmptyPresentation(), EmptyPresentation(),
	}, CalcOptions{})

	assert.Nil(t, res.FinalGrade)
	assert.Equal(t, 0, res.PresentationsUsed)
	assert.Equal(t, StatusNotEnrolled, res.Status)
	assert.False(t, res.IsComplete)
}

func TestCalculateFinalGrade_ZeroGradeExcludedNotZeroFilled(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	// Completed sitting with grade 0 counts toward status but not the average.
	pres := []Presentation{
		completedPresentation(90),
		{Completed: true, Status: PresStatusExamined, Grade: fp(0)},
		EmptyPresentation(),
		EmptyPresentation(),
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{})

	require.NotNil(t, res.FinalGrade)
	assert.InDelta(t, 90, *res.FinalGrade, 0.001)
	assert.Equal(t, 1, res.PresentationsUsed)
	assert.Equal(t, StatusInProgress, res.Status)
}

func TestCalculateFinalGrade_MagenBonusIsOptIn(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(80),
		completedPresentation(80),
		completedPresentation(80),
		completedPresentation(80), // Magen
	}

	plain := calc.CalculateFinalGrade(pres, CalcOptions{})
	require.NotNil(t, plain.FinalGrade)
	assert.InDelta(t, 80, *plain.FinalGrade, 0.001)
	assert.Zero(t, plain.Bonus)
	assert.True(t, plain.HasMagenBagrut)

	bonused := calc.CalculateFinalGrade(pres, CalcOptions{IncludeMagenBonus: true})
	require.NotNil(t, bonused.FinalGrade)
	assert.InDelta(t, 80+MagenBonusPoints, *bonused.FinalGrade, 0.001)
	assert.Equal(t, MagenBonusPoints, bonused.Bonus)
}

func TestCalculateFinalGrade_BonusWithoutValidMagenNotApplied(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(80),
		completedPresentation(80),
		completedPresentation(80),
		EmptyPresentation(), // Magen not done
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{IncludeMagenBonus: true})

	require.NotNil(t, res.FinalGrade)
	assert.InDelta(t, 80, *res.FinalGrade, 0.001)
	assert.Zero(t, res.Bonus)
	assert.False(t, res.HasMagenBagrut)
}

func TestCalculateFinalGrade_ClampedAt100(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(99),
		completedPresentation(99),
		completedPresentation(99),
		completedPresentation(99),
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{IncludeMagenBonus: true})

	require.NotNil(t, res.FinalGrade)
	assert.Equal(t, 100.0, *res.FinalGrade)
}

func TestCalculateFinalGrade_LetterLadder(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	cases := []struct {
		grade  float64
		letter string
	}{
		{95, "A"}, {90, "A"},
		{89.9, "B"}, {80, "B"},
		{75, "C"}, {70, "C"},
		{65, "D"}, {60, "D"},
		{59.9, "F"}, {10, "F"},
	}
	for _, tc := range cases {
		pres := []Presentation{
			completedPresentation(tc.grade),
			completedPresentation(tc.grade),
			completedPresentation(tc.grade),
			EmptyPresentation(),
		}
		res := calc.CalculateFinalGrade(pres, CalcOptions{})
		require.NotNil(t, res.FinalGrade, "grade %v", tc.grade)
		assert.Equal(t, tc.letter, res.LetterGrade, "grade %v", tc.grade)
		assert.NotEmpty(t, res.HebrewGrade)
	}
}

// Increasing any single presentation's score never decreases the final grade.
func TestCalculateFinalGrade_Monotonic(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	base := []Presentation{
		completedPresentation(40),
		completedPresentation(60),
		completedPresentation(75),
		completedPresentation(55),
	}
	baseRes := calc.CalculateFinalGrade(base, CalcOptions{})
	require.NotNil(t, baseRes.FinalGrade)

	for i := range base {
		for _, bump := range []float64{1, 10, 45} {
			raised := make([]Presentation, len(base))
			copy(raised, base)
			g := *base[i].Grade + bump
			if g > 100 {
				g = 100
			}
			raised[i].Grade = fp(g)

			res := calc.CalculateFinalGrade(raised, CalcOptions{})
			require.NotNil(t, res.FinalGrade)
			assert.GreaterOrEqual(t, *res.FinalGrade, *baseRes.FinalGrade,
				"raising presentation %d by %v lowered the grade", i, bump)
		}
	}
}

func TestDetermineOverallStatus_Totality(t *testing.T) {
	known := map[Status]bool{
		StatusNotEnrolled: true,
		StatusEnrolled:    true,
		StatusInProgress:  true,
		StatusCompleted:   true,
		StatusFailed:      true,
	}
	grades := []*float64{nil, fp(0), fp(59.9), fp(60), fp(100)}
	for count := 0; count <= 4; count++ {
		for _, g := range grades {
			st := DetermineOverallStatus(count, g)
			assert.True(t, known[st], "count=%d grade=%v returned %q", count, g, st)
		}
	}

	assert.Equal(t, StatusNotEnrolled, DetermineOverallStatus(0, nil))
	assert.Equal(t, StatusInProgress, DetermineOverallStatus(2, fp(100)))
	assert.Equal(t, StatusCompleted, DetermineOverallStatus(3, fp(60)))
	assert.Equal(t, StatusFailed, DetermineOverallStatus(3, fp(59)))
	assert.Equal(t, StatusFailed, DetermineOverallStatus(4, nil))
}

func TestCalculateFinalGrade_BreakdownWeights(t *testing.T) {
	calc := NewCalculator(DefaultMessages())

	pres := []Presentation{
		completedPresentation(60),
		EmptyPresentation(),
		completedPresentation(90),
		completedPresentation(70),
	}
	res := calc.CalculateFinalGrade(pres, CalcOptions{})

	require.Len(t, res.Breakdown, 3)
	for _, e := range res.Breakdown {
		assert.Equal(t, 0.25, e.Weight)
	}
	assert.True(t, res.Breakdown[2].IsMagen)
	assert.Equal(t, 3, res.Breakdown[2].Index)
}

package engine

import "fmt"

// MagenBonusPoints is the fixed capstone bonus added when the caller opts in
// and a valid Magen presentation exists.
const MagenBonusPoints = 5.0

// Per-index presentation weights. All four shares are currently equal; the
// table stays per-index so a future curriculum can re-weight the Magen.
var presentationWeights = [RequiredPresentations]float64{0.25, 0.25, 0.25, 0.25}

type CalcOptions struct {
	IncludeMagenBonus bool
}

type BreakdownEntry struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	Grade   float64 `json:"grade"`
	Weight  float64 `json:"weight"`
	IsMagen bool    `json:"isMagen"`
}

type GradeComputation struct {
	// FinalGrade is nil when no valid presentation exists yet.
	FinalGrade        *float64         `json:"finalGrade"`
	LetterGrade       string           `json:"letterGrade,omitempty"`
	HebrewGrade       string           `json:"hebrewGrade,omitempty"`
	IsComplete        bool             `json:"isComplete"`
	PresentationsUsed int              `json:"presentationsUsed"`
	Breakdown         []BreakdownEntry `json:"breakdown"`
	Bonus             float64          `json:"bonus"`
	HasMagenBagrut    bool             `json:"hasMagenBagrut"`
	Status            Status           `json:"status"`
	StatusLabel       string           `json:"statusLabel,omitempty"`
}

// Calculator turns a record's presentations into a weighted final grade and
// a lifecycle status. Incomplete presentations are excluded, never
// zero-filled.
type Calculator struct {
	msgs *Messages
}

func NewCalculator(msgs *Messages) *Calculator {
	return &Calculator{msgs: msgs}
}

func (c *Calculator) CalculateFinalGrade(presentations []Presentation, opts CalcOptions) GradeComputation {
	out := GradeComputation{Breakdown: []BreakdownEntry{}}

	completedCount := 0
	weightedSum := 0.0
	weightTotal := 0.0

	for i, p := range presentations {
		if p.Completed {
			completedCount++
		}
		// Valid = completed with a positive total score.
		if !p.Completed || p.Grade == nil || *p.Grade <= 0 {
			continue
		}
		w := 0.25
		if i < len(presentationWeights) {
			w = presentationWeights[i]
		}
		isMagen := i == MagenIndex
		if isMagen {
			out.HasMagenBagrut = true
		}
		out.PresentationsUsed++
		weightedSum += *p.Grade * w
		weightTotal += w
		out.Breakdown = append(out.Breakdown, BreakdownEntry{
			Index:   i,
			Label:   fmt.Sprintf("השמעה %d", i+1),
			Grade:   *p.Grade,
			Weight:  w,
			IsMagen: isMagen,
		})
	}

	if out.PresentationsUsed == 0 {
		out.Status = DetermineOverallStatus(completedCount, nil)
		out.StatusLabel = c.msgs.StatusLabels[out.Status]
		return out
	}

	grade := weightedSum / weightTotal
	if opts.IncludeMagenBonus && out.HasMagenBagrut {
		out.Bonus = MagenBonusPoints
		grade += out.Bonus
	}
	if grade < 0 {
		grade = 0
	}
	if grade > 100 {
		grade = 100
	}

	out.FinalGrade = &grade
	out.LetterGrade, out.HebrewGrade = c.msgs.LetterFor(grade)
	out.IsComplete = completedCount >= 3
	out.Status = DetermineOverallStatus(completedCount, out.FinalGrade)
	out.StatusLabel = c.msgs.StatusLabels[out.Status]
	return out
}

// DetermineOverallStatus is the lifecycle state machine. It always returns
// exactly one of the defined statuses, including for zero presentations.
func DetermineOverallStatus(completedCount int, finalGrade *float64) Status {
	switch {
	case completedCount == 0:
		return StatusNotEnrolled
	case completedCount < 3:
		return StatusInProgress
	case finalGrade != nil && *finalGrade >= 60:
		return StatusCompleted
	default:
		return StatusFailed
	}
}

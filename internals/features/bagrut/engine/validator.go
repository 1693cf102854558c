package engine

import "fmt"

type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validator checks a current-schema record against the numeric and
// structural invariants. Errors block persistence; warnings are data-quality
// signals the UI shows but never act on.
type Validator struct {
	msgs *Messages
}

func NewValidator(msgs *Messages) *Validator {
	return &Validator{msgs: msgs}
}

func (v *Validator) Validate(rec *ExamRecord) ValidationResult {
	errs := []string{}
	warns := []string{}

	if rec.StudentID == "" {
		errs = append(errs, v.msgs.ErrMissingStudentID)
	}
	if rec.TeacherID == "" {
		errs = append(errs, v.msgs.ErrMissingTeacherID)
	}
	if rec.RecitalUnits == nil {
		errs = append(errs, v.msgs.ErrMissingRecitalUnits)
	}
	if rec.RecitalField == "" {
		errs = append(errs, v.msgs.ErrMissingRecitalField)
	}
	if len(rec.Presentations) != RequiredPresentations {
		errs = append(errs, v.msgs.ErrPresentationCount)
	}

	if magen := rec.MagenPresentation(); magen != nil && magen.DetailedGrading != nil {
		dg := magen.DetailedGrading
		cats := []struct {
			key    string
			score  CategoryScore
			maxCap float64
		}{
			{"playingSkills", dg.PlayingSkills, MaxPlayingSkills},
			{"musicalUnderstanding", dg.MusicalUnderstanding, MaxMusicalUnderstanding},
			{"textKnowledge", dg.TextKnowledge, MaxTextKnowledge},
			{"playingByHeart", dg.PlayingByHeart, MaxPlayingByHeart},
		}
		for _, c := range cats {
			if c.score.Points != nil && *c.score.Points > c.maxCap {
				errs = append(errs, fmt.Sprintf(v.msgs.ErrCategoryOverMax, v.msgs.CategoryLabels[c.key], *c.score.Points, c.maxCap))
			}
		}
		if total, ok := dg.TotalPoints(); ok {
			if total > 100 {
				errs = append(errs, fmt.Sprintf(v.msgs.ErrCategoryTotalOverMax, total))
			} else if total < 55 {
				warns = append(warns, fmt.Sprintf(v.msgs.WarnBelowPassingFloor, total))
			}
		}
	}

	if need := rec.RequiredProgramPieces(); len(rec.Program) < need {
		warns = append(warns, fmt.Sprintf(v.msgs.WarnProgramTooShort, len(rec.Program), need))
	}

	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

package engine

import (
	"fmt"
	"math"
	"time"
)

// Change types for the migration audit trail.
const (
	ChangeStructure   = "structure"
	ChangeValue       = "value"
	ChangeCalculation = "calculation"
	ChangeValidation  = "validation"
)

type Change struct {
	Field       string      `json:"field"`
	OldValue    interface{} `json:"oldValue"`
	NewValue    interface{} `json:"newValue"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
}

type MigrationResult struct {
	Success      bool        `json:"success"`
	MigratedData *ExamRecord `json:"migratedData"`
	Changes      []Change    `json:"changes"`
	Warnings     []string    `json:"warnings"`
	Errors       []string    `json:"errors"`
}

// Migrator rewrites a legacy/mixed record into the current schema. The whole
// migration is all-or-nothing: on any failure the caller gets back the
// original record untouched and must not write it.
type Migrator struct {
	msgs *Messages

	// Now is swappable so tests can pin the updatedAt refresh.
	Now func() time.Time
}

func NewMigrator(msgs *Messages) *Migrator {
	return &Migrator{msgs: msgs, Now: time.Now}
}

// convertPoints rescales a score from one point ceiling to another,
// rounding to the nearest whole point. Shared by both legacy branches.
func convertPoints(old, oldMax, newMax float64) float64 {
	if oldMax == 0 {
		return 0
	}
	return math.Round(old / oldMax * newMax)
}

func convertPointsPtr(old *float64, oldMax, newMax float64) *float64 {
	if old == nil {
		return nil
	}
	v := convertPoints(*old, oldMax, newMax)
	return &v
}

func (m *Migrator) Migrate(rec *ExamRecord) (res MigrationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = MigrationResult{
				Success:      false,
				MigratedData: rec,
				Errors:       []string{fmt.Sprintf(m.msgs.ErrMigrationFailed, r)},
			}
		}
	}()

	work := rec.Clone()
	changes := []Change{}
	warnings := []string{}

	// 1) Exactly 4 presentations; pad short arrays with pending entries.
	if n := len(work.Presentations); n < RequiredPresentations {
		for len(work.Presentations) < RequiredPresentations {
			work.Presentations = append(work.Presentations, EmptyPresentation())
		}
		changes = append(changes, Change{
			Field:       "presentations",
			OldValue:    n,
			NewValue:    RequiredPresentations,
			Type:        ChangeStructure,
			Description: fmt.Sprintf(m.msgs.ChangePresentationsPadded, n),
		})
	}

	// 2) Old top-level grading container → detailedGrading on the Magen
	// presentation.
	if gd := work.GradingDetails; gd != nil {
		detailed := convertLegacyGrading(gd)
		work.Presentations[MagenIndex].DetailedGrading = detailed
		work.GradingDetails = nil
		changes = append(changes, Change{
			Field:       "gradingDetails",
			OldValue:    gd,
			NewValue:    detailed,
			Type:        ChangeStructure,
			Description: m.msgs.ChangeGradingConverted,
		})
	}

	// 3) Old flat-field Magen → converted detailed grading + total grade on
	// the 4th presentation.
	if mb := work.MagenBagrut; mb.HasFlatScores() {
		magen := &work.Presentations[MagenIndex]
		detailed := &DetailedGrading{
			PlayingSkills:        CategoryScore{Points: convertPointsPtr(mb.Technique, LegacyMaxTechnique, MaxPlayingSkills), MaxPoints: MaxPlayingSkills},
			MusicalUnderstanding: CategoryScore{Points: convertPointsPtr(mb.Interpretation, LegacyMaxInterpretation, MaxMusicalUnderstanding), MaxPoints: MaxMusicalUnderstanding},
			TextKnowledge:        CategoryScore{Points: convertPointsPtr(mb.Musicality, LegacyMaxMusicality, MaxTextKnowledge), MaxPoints: MaxTextKnowledge},
			PlayingByHeart:       CategoryScore{Points: convertPointsPtr(mb.Overall, LegacyMaxOverall, MaxPlayingByHeart), MaxPoints: MaxPlayingByHeart},
		}
		magen.DetailedGrading = detailed
		if total, ok := detailed.TotalPoints(); ok {
			magen.Grade = &total
			magen.GradeLevel = m.msgs.GradeLevelFor(total)
		}
		if magen.ExamDate == nil {
			magen.ExamDate = mb.ExamDate
		}
		if magen.Notes == "" {
			magen.Notes = mb.Notes
		}
		work.MagenBagrut = nil
		changes = append(changes, Change{
			Field:       "magenBagrut",
			OldValue:    mb,
			NewValue:    detailed,
			Type:        ChangeStructure,
			Description: m.msgs.ChangeMagenConverted,
		})
	} else if work.MagenBagrut != nil {
		// Empty shell, nothing to convert.
		work.MagenBagrut = nil
	}

	// 4) Defaults for missing scalars. Surfaced as warnings so the defaults
	// are a visible data-quality signal, not a silent fill.
	if work.RecitalUnits == nil {
		units := DefaultRecitalUnits
		work.RecitalUnits = &units
		changes = append(changes, Change{
			Field:       "recitalUnits",
			OldValue:    nil,
			NewValue:    units,
			Type:        ChangeValue,
			Description: m.msgs.ChangeDefaultUnits,
		})
		warnings = append(warnings, m.msgs.WarnDefaultUnits)
	}
	if work.RecitalField == "" {
		work.RecitalField = DefaultRecitalField
		changes = append(changes, Change{
			Field:       "recitalField",
			OldValue:    "",
			NewValue:    DefaultRecitalField,
			Type:        ChangeValue,
			Description: m.msgs.ChangeDefaultField,
		})
		warnings = append(warnings, m.msgs.WarnDefaultField)
	}

	// 5) updatedAt refreshes on every migration, even a no-op one.
	now := m.Now()
	work.UpdatedAt = &now

	return MigrationResult{
		Success:      true,
		MigratedData: work,
		Changes:      changes,
		Warnings:     warnings,
		Errors:       []string{},
	}
}

// convertLegacyGrading rescales the old four-category container onto the
// current category set. Points that were never set stay unset.
func convertLegacyGrading(gd *LegacyGradingDetails) *DetailedGrading {
	conv := func(c *LegacyCategory, oldMax, newMax float64) CategoryScore {
		out := CategoryScore{MaxPoints: newMax}
		if c == nil {
			return out
		}
		if c.MaxPoints > 0 {
			oldMax = c.MaxPoints
		}
		out.Points = convertPointsPtr(c.Points, oldMax, newMax)
		out.Comments = c.Comments
		return out
	}
	return &DetailedGrading{
		PlayingSkills:        conv(gd.Technique, LegacyMaxTechnique, MaxPlayingSkills),
		MusicalUnderstanding: conv(gd.Interpretation, LegacyMaxInterpretation, MaxMusicalUnderstanding),
		TextKnowledge:        conv(gd.Musicality, LegacyMaxMusicality, MaxTextKnowledge),
		PlayingByHeart:       conv(gd.Overall, LegacyMaxOverall, MaxPlayingByHeart),
	}
}

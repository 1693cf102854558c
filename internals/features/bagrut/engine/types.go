// Package engine implements the Bagrut record core: schema detection,
// legacy migration, invariant validation, grade calculation and progress
// reporting. Everything here is a pure transformation over record values —
// no DB, no HTTP, no logging. Callers (service layer) own all I/O.
package engine

import "time"

// Schema version tag produced by the Detector. Downstream components switch
// on this tag instead of re-guessing the shape from optional fields.
type Version string

const (
	VersionCurrent Version = "current"
	VersionLegacy  Version = "legacy"
)

// Presentation lifecycle values. Stored as free strings (legacy data may
// hold anything), but these are the ones the app writes.
const (
	PresStatusPending   = "pending"
	PresStatusScheduled = "scheduled"
	PresStatusExamined  = "examined"
	PresStatusCompleted = "completed"
	PresStatusFailed    = "failed"
)

// Overall track status (state machine in calculator.go).
type Status string

const (
	StatusNotEnrolled Status = "not_enrolled"
	StatusEnrolled    Status = "enrolled"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Detailed grading category maximums (current schema) and the legacy scale
// they are converted from.
const (
	MaxPlayingSkills        = 40
	MaxMusicalUnderstanding = 30
	MaxTextKnowledge        = 20
	MaxPlayingByHeart       = 10

	LegacyMaxTechnique      = 35
	LegacyMaxInterpretation = 25
	LegacyMaxMusicality     = 25
	LegacyMaxOverall        = 15
)

// MagenIndex is the position of the Magen Bagrut (capstone jury) presentation.
const MagenIndex = 3

// RequiredPresentations is the fixed presentation count of a Bagrut record.
const RequiredPresentations = 4

type CategoryScore struct {
	Points    *float64 `json:"points,omitempty"`
	MaxPoints float64  `json:"maxPoints"`
	Comments  string   `json:"comments,omitempty"`
}

// DetailedGrading is the four-category breakdown carried only by the Magen
// presentation in the current schema.
type DetailedGrading struct {
	PlayingSkills        CategoryScore `json:"playingSkills"`
	MusicalUnderstanding CategoryScore `json:"musicalUnderstanding"`
	TextKnowledge        CategoryScore `json:"textKnowledge"`
	PlayingByHeart       CategoryScore `json:"playingByHeart"`
}

// TotalPoints sums the categories that actually carry points. The second
// return reports whether any category was set at all.
func (d *DetailedGrading) TotalPoints() (float64, bool) {
	total := 0.0
	any := false
	for _, c := range []CategoryScore{d.PlayingSkills, d.MusicalUnderstanding, d.TextKnowledge, d.PlayingByHeart} {
		if c.Points != nil {
			total += *c.Points
			any = true
		}
	}
	return total, any
}

type Presentation struct {
	Completed       bool             `json:"completed"`
	Status          string           `json:"status,omitempty"`
	ExamDate        *time.Time       `json:"examDate,omitempty"`
	Review          string           `json:"review,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	RecordingLinks  []string         `json:"recordingLinks,omitempty"`
	Grade           *float64         `json:"grade,omitempty"`
	GradeLevel      string           `json:"gradeLevel,omitempty"`
	DetailedGrading *DetailedGrading `json:"detailedGrading,omitempty"`
}

type ProgramPiece struct {
	PieceTitle string `json:"pieceTitle,omitempty"`
	Composer   string `json:"composer,omitempty"`
	Duration   string `json:"duration,omitempty"`
	YouTubeURL string `json:"youtubeLink,omitempty"`
}

type Document struct {
	Title      string     `json:"title,omitempty"`
	URL        string     `json:"url,omitempty"`
	UploadDate *time.Time `json:"uploadDate,omitempty"`
}

// LegacyCategory is one entry of the old four-category grading container.
type LegacyCategory struct {
	Points    *float64 `json:"points,omitempty"`
	MaxPoints float64  `json:"maxPoints,omitempty"`
	Comments  string   `json:"comments,omitempty"`
}

// LegacyGradingDetails is the pre-migration top-level grading container
// (technique 35 / interpretation 25 / musicality 25 / overall 15). Input only.
type LegacyGradingDetails struct {
	Technique      *LegacyCategory `json:"technique,omitempty"`
	Interpretation *LegacyCategory `json:"interpretation,omitempty"`
	Musicality     *LegacyCategory `json:"musicality,omitempty"`
	Overall        *LegacyCategory `json:"overall,omitempty"`
}

// LegacyMagenBagrut is the old flat-field Magen structure. Input only.
type LegacyMagenBagrut struct {
	Technique      *float64   `json:"technique,omitempty"`
	Interpretation *float64   `json:"interpretation,omitempty"`
	Musicality     *float64   `json:"musicality,omitempty"`
	Overall        *float64   `json:"overall,omitempty"`
	ExamDate       *time.Time `json:"examDate,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// HasFlatScores reports whether any of the flat numeric legacy fields is set.
func (m *LegacyMagenBagrut) HasFlatScores() bool {
	return m != nil && (m.Technique != nil || m.Interpretation != nil || m.Musicality != nil || m.Overall != nil)
}

// ExamRecord is one student-instrument matriculation track as fetched from
// persistence. The legacy containers (GradingDetails, MagenBagrut) are input
// only: the migrator clears them and current-schema records never carry them.
type ExamRecord struct {
	StudentID     string         `json:"studentId"`
	TeacherID     string         `json:"teacherId"`
	RecitalUnits  *int           `json:"recitalUnits,omitempty"`
	RecitalField  string         `json:"recitalField,omitempty"`
	Presentations []Presentation `json:"presentations"`
	Program       []ProgramPiece `json:"program,omitempty"`
	Documents     []Document     `json:"documents,omitempty"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`

	GradingDetails *LegacyGradingDetails `json:"gradingDetails,omitempty"`
	MagenBagrut    *LegacyMagenBagrut    `json:"magenBagrut,omitempty"`
}

// RequiredProgramPieces returns how many program pieces the record's unit
// count demands (5 units → 5 pieces, otherwise 3).
func (r *ExamRecord) RequiredProgramPieces() int {
	if r.RecitalUnits != nil && *r.RecitalUnits == 5 {
		return 5
	}
	return 3
}

// MagenPresentation returns the 4th presentation if present.
func (r *ExamRecord) MagenPresentation() *Presentation {
	if len(r.Presentations) <= MagenIndex {
		return nil
	}
	return &r.Presentations[MagenIndex]
}

// Clone deep-copies the record so the migrator can work all-or-nothing
// without touching the caller's value.
func (r *ExamRecord) Clone() *ExamRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Presentations = make([]Presentation, len(r.Presentations))
	for i, p := range r.Presentations {
		out.Presentations[i] = *clonePresentation(&p)
	}
	out.Program = append([]ProgramPiece(nil), r.Program...)
	out.Documents = append([]Document(nil), r.Documents...)
	out.RecitalUnits = cloneIntPtr(r.RecitalUnits)
	out.UpdatedAt = cloneTimePtr(r.UpdatedAt)
	if r.GradingDetails != nil {
		gd := LegacyGradingDetails{
			Technique:      cloneLegacyCategory(r.GradingDetails.Technique),
			Interpretation: cloneLegacyCategory(r.GradingDetails.Interpretation),
			Musicality:     cloneLegacyCategory(r.GradingDetails.Musicality),
			Overall:        cloneLegacyCategory(r.GradingDetails.Overall),
		}
		out.GradingDetails = &gd
	}
	if r.MagenBagrut != nil {
		mb := *r.MagenBagrut
		mb.Technique = cloneFloatPtr(r.MagenBagrut.Technique)
		mb.Interpretation = cloneFloatPtr(r.MagenBagrut.Interpretation)
		mb.Musicality = cloneFloatPtr(r.MagenBagrut.Musicality)
		mb.Overall = cloneFloatPtr(r.MagenBagrut.Overall)
		mb.ExamDate = cloneTimePtr(r.MagenBagrut.ExamDate)
		out.MagenBagrut = &mb
	}
	return &out
}

func clonePresentation(p *Presentation) *Presentation {
	out := *p
	out.ExamDate = cloneTimePtr(p.ExamDate)
	out.Grade = cloneFloatPtr(p.Grade)
	out.RecordingLinks = append([]string(nil), p.RecordingLinks...)
	if p.DetailedGrading != nil {
		dg := *p.DetailedGrading
		dg.PlayingSkills.Points = cloneFloatPtr(p.DetailedGrading.PlayingSkills.Points)
		dg.MusicalUnderstanding.Points = cloneFloatPtr(p.DetailedGrading.MusicalUnderstanding.Points)
		dg.TextKnowledge.Points = cloneFloatPtr(p.DetailedGrading.TextKnowledge.Points)
		dg.PlayingByHeart.Points = cloneFloatPtr(p.DetailedGrading.PlayingByHeart.Points)
		out.DetailedGrading = &dg
	}
	return &out
}

func cloneLegacyCategory(c *LegacyCategory) *LegacyCategory {
	if c == nil {
		return nil
	}
	out := *c
	out.Points = cloneFloatPtr(c.Points)
	return &out
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// EmptyPresentation returns a fresh pending presentation used both for new
// records and for padding short legacy arrays.
func EmptyPresentation() Presentation {
	return Presentation{Completed: false, Status: PresStatusPending}
}

// NewExamRecord builds an empty current-schema record: four pending
// presentations, no grading.
func NewExamRecord(studentID, teacherID string, recitalUnits int, recitalField string) *ExamRecord {
	pres := make([]Presentation, RequiredPresentations)
	for i := range pres {
		pres[i] = EmptyPresentation()
	}
	units := recitalUnits
	return &ExamRecord{
		StudentID:     studentID,
		TeacherID:     teacherID,
		RecitalUnits:  &units,
		RecitalField:  recitalField,
		Presentations: pres,
	}
}

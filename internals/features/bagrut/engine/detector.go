package engine

// Issue classification.
const (
	IssueInvalidStructure = "invalid_structure"
	IssueMissingField     = "missing_field"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Field       string `json:"field"`
	Message     string `json:"message"`
	AutoFixable bool   `json:"autoFixable"`
}

type DetectionResult struct {
	NeedsMigration bool    `json:"needsMigration"`
	Version        Version `json:"version"`
	Issues         []Issue `json:"issues"`
	Compatibility  int     `json:"compatibility"`
}

// Detector classifies a raw record as legacy or current once, so downstream
// components pattern-match on the tag instead of re-deriving shape guesses.
type Detector struct {
	msgs *Messages
}

func NewDetector(msgs *Messages) *Detector {
	return &Detector{msgs: msgs}
}

func (d *Detector) Detect(rec *ExamRecord) DetectionResult {
	issues := []Issue{}
	legacy := false

	magen := rec.MagenPresentation()
	hasDetailed := magen != nil && magen.DetailedGrading != nil

	// Old top-level grading container without detailed grading on the Magen
	// presentation.
	if rec.GradingDetails != nil && !hasDetailed {
		legacy = true
		issues = append(issues, Issue{
			Type:        IssueInvalidStructure,
			Severity:    SeverityHigh,
			Field:       "gradingDetails",
			Message:     d.msgs.IssueLegacyGrading,
			AutoFixable: true,
		})
	}

	// Old flat-field Magen structure instead of nested grading.
	if rec.MagenBagrut.HasFlatScores() && !hasDetailed {
		legacy = true
		issues = append(issues, Issue{
			Type:        IssueInvalidStructure,
			Severity:    SeverityHigh,
			Field:       "magenBagrut",
			Message:     d.msgs.IssueLegacyMagen,
			AutoFixable: true,
		})
	}

	// Missing required scalar fields. Not auto-fixable: the migrator injects
	// defaults, but flags them as warnings because a human should confirm.
	if rec.RecitalUnits == nil {
		issues = append(issues, Issue{
			Type:     IssueMissingField,
			Severity: SeverityMedium,
			Field:    "recitalUnits",
			Message:  d.msgs.IssueMissingUnits,
		})
	}
	if rec.RecitalField == "" {
		issues = append(issues, Issue{
			Type:     IssueMissingField,
			Severity: SeverityMedium,
			Field:    "recitalField",
			Message:  d.msgs.IssueMissingField,
		})
	}

	if len(rec.Presentations) != RequiredPresentations {
		issues = append(issues, Issue{
			Type:        IssueInvalidStructure,
			Severity:    SeverityMedium,
			Field:       "presentations",
			Message:     d.msgs.IssuePresentationCount,
			AutoFixable: true,
		})
	}

	version := VersionCurrent
	if legacy {
		version = VersionLegacy
	}

	autoFixable := 0
	for _, is := range issues {
		if is.AutoFixable {
			autoFixable++
		}
	}

	// 100 when clean; otherwise penalize every issue and give back credit
	// for the ones the migrator can fix on its own.
	compat := 100
	if len(issues) > 0 {
		compat = 100 - 20*len(issues) + 10*autoFixable
		if compat < 0 {
			compat = 0
		}
	}

	return DetectionResult{
		NeedsMigration: legacy || autoFixable > 0,
		Version:        version,
		Issues:         issues,
		Compatibility:  compat,
	}
}

package engine

import (
	"fmt"
	"time"
)

// Estimated spacing between remaining presentations when none is scheduled.
const monthsPerPendingPresentation = 3

// Recommendation categories. Non-exclusive: any subset may fire.
const (
	RecTypeUrgent         = "urgent"
	RecTypeImprovement    = "improvement"
	RecTypeOpportunity    = "opportunity"
	RecTypeAdministrative = "administrative"
)

type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

type Overview struct {
	TotalPresentations     int     `json:"totalPresentations"`
	CompletedPresentations int     `json:"completedPresentations"`
	PendingPresentations   int     `json:"pendingPresentations"`
	CompletionRate         float64 `json:"completionRate"`
	Error                  string  `json:"error,omitempty"`
}

type GradingSection struct {
	Result *GradeComputation `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type Timeline struct {
	NextExamDate        *time.Time `json:"nextExamDate,omitempty"`
	LastCompletedDate   *time.Time `json:"lastCompletedDate,omitempty"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	Error               string     `json:"error,omitempty"`
}

type Requirements struct {
	MinimumPresentationsMet bool   `json:"minimumPresentationsMet"`
	CertificateEligible     bool   `json:"certificateEligible"`
	Error                   string `json:"error,omitempty"`
}

type ProgressReport struct {
	Overview        Overview         `json:"overview"`
	Grading         GradingSection   `json:"grading"`
	Timeline        Timeline         `json:"timeline"`
	Requirements    Requirements     `json:"requirements"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Reporter composes calculator output with timeline and completion data.
// Each section is computed behind its own recover so one bad section
// degrades to an error payload without taking down the rest.
type Reporter struct {
	msgs *Messages
	calc *Calculator

	Now func() time.Time
}

func NewReporter(msgs *Messages) *Reporter {
	return &Reporter{msgs: msgs, calc: NewCalculator(msgs), Now: time.Now}
}

func (r *Reporter) BuildReport(rec *ExamRecord) ProgressReport {
	report := ProgressReport{Recommendations: []Recommendation{}}

	guard(&report.Overview.Error, func() {
		report.Overview = r.buildOverview(rec)
	})
	guard(&report.Grading.Error, func() {
		res := r.calc.CalculateFinalGrade(rec.Presentations, CalcOptions{IncludeMagenBonus: true})
		report.Grading = GradingSection{Result: &res}
	})
	guard(&report.Timeline.Error, func() {
		report.Timeline = r.buildTimeline(rec)
	})
	guard(&report.Requirements.Error, func() {
		report.Requirements = r.buildRequirements(report.Grading.Result)
	})

	var recsErr string
	guard(&recsErr, func() {
		report.Recommendations = r.buildRecommendations(rec, report.Grading.Result)
	})
	if recsErr != "" {
		report.Recommendations = []Recommendation{{Type: RecTypeAdministrative, Message: recsErr}}
	}

	return report
}

// guard runs f and converts a panic into an error string on the section.
func guard(errField *string, f func()) {
	defer func() {
		if rec := recover(); rec != nil {
			*errField = fmt.Sprintf("%v", rec)
		}
	}()
	f()
}

func (r *Reporter) buildOverview(rec *ExamRecord) Overview {
	total := len(rec.Presentations)
	completed := 0
	for _, p := range rec.Presentations {
		if p.Completed {
			completed++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}
	return Overview{
		TotalPresentations:     total,
		CompletedPresentations: completed,
		PendingPresentations:   total - completed,
		CompletionRate:         rate,
	}
}

func (r *Reporter) buildTimeline(rec *ExamRecord) Timeline {
	now := r.Now()
	tl := Timeline{}

	pending := 0
	var latestScheduled *time.Time
	for i := range rec.Presentations {
		p := &rec.Presentations[i]
		if p.Completed {
			// Latest past exam date among completed sittings.
			if p.ExamDate != nil && p.ExamDate.Before(now) {
				if tl.LastCompletedDate == nil || p.ExamDate.After(*tl.LastCompletedDate) {
					tl.LastCompletedDate = p.ExamDate
				}
			}
			continue
		}
		pending++
		if p.ExamDate == nil {
			continue
		}
		// Earliest future exam date among pending sittings.
		if p.ExamDate.After(now) {
			if tl.NextExamDate == nil || p.ExamDate.Before(*tl.NextExamDate) {
				tl.NextExamDate = p.ExamDate
			}
		}
		if latestScheduled == nil || p.ExamDate.After(*latestScheduled) {
			latestScheduled = p.ExamDate
		}
	}

	if pending > 0 {
		if latestScheduled != nil {
			tl.EstimatedCompletion = latestScheduled
		} else {
			est := now.AddDate(0, monthsPerPendingPresentation*pending, 0)
			tl.EstimatedCompletion = &est
		}
	}
	return tl
}

func (r *Reporter) buildRequirements(grading *GradeComputation) Requirements {
	req := Requirements{}
	if grading == nil {
		return req
	}
	req.MinimumPresentationsMet = grading.Status == StatusCompleted || grading.Status == StatusFailed
	req.CertificateEligible = grading.IsComplete && grading.FinalGrade != nil && *grading.FinalGrade >= 60
	return req
}

func (r *Reporter) buildRecommendations(rec *ExamRecord, grading *GradeComputation) []Recommendation {
	recs := []Recommendation{}
	if grading == nil {
		return recs
	}

	completed := 0
	for _, p := range rec.Presentations {
		if p.Completed {
			completed++
		}
	}

	if grading.PresentationsUsed < 3 {
		recs = append(recs, Recommendation{
			Type:    RecTypeUrgent,
			Message: r.msgs.RecUrgentMessage,
			Action:  r.msgs.RecUrgentAction,
		})
	}
	if grading.FinalGrade != nil && *grading.FinalGrade < 70 {
		recs = append(recs, Recommendation{
			Type:    RecTypeImprovement,
			Message: r.msgs.RecImproveMessage,
			Action:  r.msgs.RecImproveAction,
		})
	}
	if !grading.HasMagenBagrut && completed >= 2 {
		recs = append(recs, Recommendation{
			Type:    RecTypeOpportunity,
			Message: r.msgs.RecMagenMessage,
			Action:  r.msgs.RecMagenAction,
		})
	}
	if len(rec.Documents) < 3 {
		recs = append(recs, Recommendation{
			Type:    RecTypeAdministrative,
			Message: r.msgs.RecDocumentsMessage,
			Action:  r.msgs.RecDocumentsAction,
		})
	}
	return recs
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter() *Reporter {
	r := NewReporter(DefaultMessages())
	r.Now = fixedNow
	return r
}

func tp(t time.Time) *time.Time { return &t }

func TestBuildReport_Overview(t *testing.T) {
	r := newTestReporter()

	rec := currentRecord()
	rec.Presentations[0] = completedPresentation(80)
	rec.Presentations[1] = completedPresentation(90)

	rep := r.BuildReport(rec)
	assert.Equal(t, 4, rep.Overview.TotalPresentations)
	assert.Equal(t, 2, rep.Overview.CompletedPresentations)
	assert.Equal(t, 2, rep.Overview.PendingPresentations)
	assert.InDelta(t, 50, rep.Overview.CompletionRate, 0.001)
	assert.Empty(t, rep.Overview.Error)
}

func TestBuildReport_GradingUsesMagenBonus(t *testing.T) {
	r := newTestReporter()

	rec := currentRecord()
	for i := range rec.Presentations {
		rec.Presentations[i] = completedPresentation(80)
	}

	rep := r.BuildReport(rec)
	require.NotNil(t, rep.Grading.Result)
	require.NotNil(t, rep.Grading.Result.FinalGrade)
	assert.InDelta(t, 85, *rep.Grading.Result.FinalGrade, 0.001)
	assert.Equal(t, MagenBonusPoints, rep.Grading.Result.Bonus)
}

func TestBuildReport_Timeline(t *testing.T) {
	r := newTestReporter()
	now := fixedNow()

	rec := currentRecord()
	rec.Presentations[0] = completedPresentation(80)
	rec.Presentations[0].ExamDate = tp(now.AddDate(0, -2, 0))
	rec.Presentations[1] = completedPresentation(85)
	rec.Presentations[1].ExamDate = tp(now.AddDate(0, -1, 0))
	rec.Presentations[2].Status = PresStatusScheduled
	rec.Presentations[2].ExamDate = tp(now.AddDate(0, 1, 0))
	rec.Presentations[3].Status = PresStatusScheduled
	rec.Presentations[3].ExamDate = tp(now.AddDate(0, 2, 0))

	tl := r.BuildReport(rec).Timeline
	require.NotNil(t, tl.NextExamDate)
	assert.Equal(t, now.AddDate(0, 1, 0), *tl.NextExamDate)
	require.NotNil(t, tl.LastCompletedDate)
	assert.Equal(t, now.AddDate(0, -1, 0), *tl.LastCompletedDate)
	// Estimated completion = latest scheduled pending date.
	require.NotNil(t, tl.EstimatedCompletion)
	assert.Equal(t, now.AddDate(0, 2, 0), *tl.EstimatedCompletion)
}

func TestBuildReport_TimelineEstimateWithoutSchedule(t *testing.T) {
	r := newTestReporter()
	now := fixedNow()

	rec := currentRecord()
	rec.Presentations[0] = completedPresentation(80)

	tl := r.BuildReport(rec).Timeline
	assert.Nil(t, tl.NextExamDate)
	// 3 pending, nothing scheduled: now + 3 months each.
	require.NotNil(t, tl.EstimatedCompletion)
	assert.Equal(t, now.AddDate(0, 9, 0), *tl.EstimatedCompletion)
}

func TestBuildReport_Requirements(t *testing.T) {
	r := newTestReporter()

	rec := currentRecord()
	for i := 0; i < 3; i++ {
		rec.Presentations[i] = completedPresentation(75)
	}

	req := r.BuildReport(rec).Requirements
	assert.True(t, req.MinimumPresentationsMet)
	assert.True(t, req.CertificateEligible)

	// Failing average: minimum met but no certificate.
	for i := 0; i < 3; i++ {
		rec.Presentations[i] = completedPresentation(40)
	}
	req = r.BuildReport(rec).Requirements
	assert.True(t, req.MinimumPresentationsMet)
	assert.False(t, req.CertificateEligible)
}

func TestBuildReport_RecommendationRules(t *testing.T) {
	r := newTestReporter()

	recTypes := func(recs []Recommendation) map[string]bool {
		out := map[string]bool{}
		for _, rc := range recs {
			out[rc.Type] = true
		}
		return out
	}

	// Fresh record: urgent (0 used), opportunity not yet (0 completed),
	// administrative (no documents).
	rec := currentRecord()
	types := recTypes(r.BuildReport(rec).Recommendations)
	assert.True(t, types[RecTypeUrgent])
	assert.False(t, types[RecTypeOpportunity])
	assert.True(t, types[RecTypeAdministrative])

	// Two low-scored presentations done: urgent + improvement + Magen
	// opportunity can all fire together.
	rec.Presentations[0] = completedPresentation(60)
	rec.Presentations[1] = completedPresentation(65)
	types = recTypes(r.BuildReport(rec).Recommendations)
	assert.True(t, types[RecTypeUrgent])
	assert.True(t, types[RecTypeImprovement])
	assert.True(t, types[RecTypeOpportunity])
	assert.True(t, types[RecTypeAdministrative])

	// Strong complete record with documents: nothing fires.
	for i := range rec.Presentations {
		rec.Presentations[i] = completedPresentation(90)
	}
	rec.Documents = []Document{{Title: "א"}, {Title: "ב"}, {Title: "ג"}}
	assert.Empty(t, r.BuildReport(rec).Recommendations)
}

// One broken section degrades to an error payload; the others still compute.
func TestBuildReport_SectionIsolation(t *testing.T) {
	r := newTestReporter()
	r.Now = func() time.Time { panic("no clock") }

	rec := currentRecord()
	rec.Presentations[0] = completedPresentation(80)

	rep := r.BuildReport(rec)
	assert.NotEmpty(t, rep.Timeline.Error)
	assert.Empty(t, rep.Overview.Error)
	assert.Equal(t, 4, rep.Overview.TotalPresentations)
	require.NotNil(t, rep.Grading.Result)
	assert.NotNil(t, rep.Grading.Result.FinalGrade)
}

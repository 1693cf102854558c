package engine

// Messages holds every user-facing (Hebrew) string and banding table the
// engine emits. It is built once at startup and injected into each component
// so nothing reads ambient globals and tests can pin the tables.
type Messages struct {
	// Grade-level bands, descending by Min. Contiguous and exhaustive over
	// 0..100 (last band has Min 0).
	GradeBands []GradeBand

	// Letter-grade ladder, descending by Min, with the fixed Hebrew label
	// per letter. Last entry (Min 0) is the fail letter.
	LetterBands []LetterBand

	StatusLabels map[Status]string

	// Validator output
	ErrMissingStudentID     string
	ErrMissingTeacherID     string
	ErrMissingRecitalUnits  string
	ErrMissingRecitalField  string
	ErrPresentationCount    string
	ErrCategoryOverMax      string // fmt: category label, points, max
	ErrCategoryTotalOverMax string // fmt: total
	WarnBelowPassingFloor   string // fmt: total
	WarnProgramTooShort     string // fmt: have, need

	// Migration audit trail / warnings
	ChangePresentationsPadded string // fmt: old len
	ChangeGradingConverted    string
	ChangeMagenConverted      string
	ChangeDefaultUnits        string
	ChangeDefaultField        string
	WarnDefaultUnits          string
	WarnDefaultField          string
	ErrMigrationFailed        string // fmt: cause

	// Detector issue messages
	IssueLegacyGrading     string
	IssueLegacyMagen       string
	IssueMissingUnits      string
	IssueMissingField      string
	IssuePresentationCount string

	// Recommendations
	RecUrgentMessage    string
	RecUrgentAction     string
	RecImproveMessage   string
	RecImproveAction    string
	RecMagenMessage     string
	RecMagenAction      string
	RecDocumentsMessage string
	RecDocumentsAction  string

	// Category display names, keyed by JSON field name.
	CategoryLabels map[string]string
}

type GradeBand struct {
	Min   float64
	Label string
}

type LetterBand struct {
	Min    float64
	Letter string
	Hebrew string
}

// DefaultRecitalField is the genre injected when a legacy record carries none.
const DefaultRecitalField = "קלאסי"

// DefaultRecitalUnits is the unit count injected when a legacy record carries none.
const DefaultRecitalUnits = 3

// DefaultMessages builds the fixed Hebrew table set the conservatory UI
// displays verbatim.
func DefaultMessages() *Messages {
	return &Messages{
		GradeBands: []GradeBand{
			{95, "מעולה"},
			{85, "טוב מאוד"},
			{75, "טוב"},
			{65, "כמעט טוב"},
			{55, "מספיק"},
			{45, "כמעט מספיק"},
			{35, "לא מספיק"},
			{0, "נכשל"},
		},
		LetterBands: []LetterBand{
			{90, "A", "מצוין"},
			{80, "B", "טוב מאוד"},
			{70, "C", "טוב"},
			{60, "D", "מספיק"},
			{0, "F", "נכשל"},
		},
		StatusLabels: map[Status]string{
			StatusNotEnrolled: "לא רשום",
			StatusEnrolled:    "רשום",
			StatusInProgress:  "בתהליך",
			StatusCompleted:   "הושלם",
			StatusFailed:      "נכשל",
		},

		ErrMissingStudentID:     "חסר מזהה תלמיד",
		ErrMissingTeacherID:     "חסר מזהה מורה",
		ErrMissingRecitalUnits:  "חסרות יחידות רסיטל",
		ErrMissingRecitalField:  "חסר תחום רסיטל",
		ErrPresentationCount:    "נדרשות בדיוק 4 השמעות",
		ErrCategoryOverMax:      "הניקוד בקטגוריה %s (%.0f) חורג מהמקסימום (%.0f)",
		ErrCategoryTotalOverMax: "סך הניקוד המפורט (%.0f) חורג מ-100",
		WarnBelowPassingFloor:   "הציון הכולל (%.0f) נמוך מרף המעבר 55",
		WarnProgramTooShort:     "בתוכנית %d יצירות מתוך %d נדרשות",

		ChangePresentationsPadded: "הושלמו השמעות חסרות (%d → 4)",
		ChangeGradingConverted:    "פרטי הציון הישנים הומרו למבנה הנוכחי",
		ChangeMagenConverted:      "מבנה מגן בגרות ישן הומר להשמעה הרביעית",
		ChangeDefaultUnits:        "הוזנו יחידות רסיטל ברירת מחדל",
		ChangeDefaultField:        "הוזן תחום רסיטל ברירת מחדל",
		WarnDefaultUnits:          "יחידות רסיטל לא הוגדרו — נקבעו 3 יחידות כברירת מחדל",
		WarnDefaultField:          "תחום רסיטל לא הוגדר — נקבע \"קלאסי\" כברירת מחדל",
		ErrMigrationFailed:        "ההמרה נכשלה: %v",

		IssueLegacyGrading:     "קיים מבנה ציונים ישן ללא ציון מפורט בהשמעה הרביעית",
		IssueLegacyMagen:       "קיים מבנה מגן בגרות ישן עם שדות ציון שטוחים",
		IssueMissingUnits:      "יחידות רסיטל חסרות — נדרשת החלטה ידנית",
		IssueMissingField:      "תחום רסיטל חסר — נדרשת החלטה ידנית",
		IssuePresentationCount: "מערך ההשמעות אינו באורך 4",

		RecUrgentMessage:    "הושלמו פחות מ-3 השמעות — יש להשלים את ההשמעות החסרות",
		RecUrgentAction:     "תיאום מועדי השמעה עם המורה",
		RecImproveMessage:   "הציון הנוכחי נמוך מ-70 — מומלץ תרגול ממוקד לקראת ההשמעות הבאות",
		RecImproveAction:    "קביעת שיעורי חיזוק",
		RecMagenMessage:     "טרם בוצע מגן בגרות — ניתן לתאם את השמעת המגן",
		RecMagenAction:      "תיאום מועד מגן בגרות",
		RecDocumentsMessage: "צורפו פחות מ-3 מסמכים — יש להשלים מסמכים נדרשים",
		RecDocumentsAction:  "העלאת מסמכים חסרים",

		CategoryLabels: map[string]string{
			"playingSkills":        "כישורי נגינה",
			"musicalUnderstanding": "הבנה מוזיקלית",
			"textKnowledge":        "ידיעת הטקסט",
			"playingByHeart":       "נגינה בעל פה",
		},
	}
}

// GradeLevelFor maps a 0..100 score to its Hebrew band. Used everywhere a
// numeric score is rendered as a band.
func (m *Messages) GradeLevelFor(score float64) string {
	for _, b := range m.GradeBands {
		if score >= b.Min {
			return b.Label
		}
	}
	// Min 0 band catches everything non-negative; negatives fail too.
	return m.GradeBands[len(m.GradeBands)-1].Label
}

// LetterFor maps a 0..100 score to its letter grade and Hebrew label.
func (m *Messages) LetterFor(score float64) (letter, hebrew string) {
	for _, b := range m.LetterBands {
		if score >= b.Min {
			return b.Letter, b.Hebrew
		}
	}
	last := m.LetterBands[len(m.LetterBands)-1]
	return last.Letter, last.Hebrew
}

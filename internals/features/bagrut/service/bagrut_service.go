package service

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"conservatory_backend/internals/features/bagrut/engine"
	"conservatory_backend/internals/features/bagrut/model"
)

var ErrNotFound = errors.New("bagrut record not found")

// legacyPayload is the shape of the bagrut_legacy_payload column.
type legacyPayload struct {
	GradingDetails *engine.LegacyGradingDetails `json:"gradingDetails,omitempty"`
	MagenBagrut    *engine.LegacyMagenBagrut    `json:"magenBagrut,omitempty"`
}

// Service owns persistence around the pure engine: it reassembles the raw
// record from a row, runs detect → migrate → validate, and decomposes the
// migrated record back into columns. The engine never sees the DB.
type Service struct {
	DB   *gorm.DB
	Msgs *engine.Messages

	detector  *engine.Detector
	migrator  *engine.Migrator
	validator *engine.Validator
	calc      *engine.Calculator
	reporter  *engine.Reporter
}

func New(db *gorm.DB, msgs *engine.Messages) *Service {
	return &Service{
		DB:        db,
		Msgs:      msgs,
		detector:  engine.NewDetector(msgs),
		migrator:  engine.NewMigrator(msgs),
		validator: engine.NewValidator(msgs),
		calc:      engine.NewCalculator(msgs),
		reporter:  engine.NewReporter(msgs),
	}
}

/* ================= row ↔ record ================= */

// AssembleRecord rebuilds the raw exam record the engine operates on from
// the stored row, legacy remnants included.
func (s *Service) AssembleRecord(m *model.BagrutModel) (*engine.ExamRecord, error) {
	rec := &engine.ExamRecord{
		StudentID: m.BagrutStudentID.String(),
		TeacherID: m.BagrutTeacherID.String(),
	}
	rec.RecitalUnits = m.BagrutRecitalUnits
	if m.BagrutRecitalField != nil {
		rec.RecitalField = *m.BagrutRecitalField
	}
	if len(m.BagrutPresentations) > 0 {
		if err := sonic.Unmarshal(m.BagrutPresentations, &rec.Presentations); err != nil {
			return nil, fmt.Errorf("decode presentations: %w", err)
		}
	}
	if len(m.BagrutProgram) > 0 {
		if err := sonic.Unmarshal(m.BagrutProgram, &rec.Program); err != nil {
			return nil, fmt.Errorf("decode program: %w", err)
		}
	}
	if len(m.BagrutDocuments) > 0 {
		if err := sonic.Unmarshal(m.BagrutDocuments, &rec.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	if len(m.BagrutLegacyPayload) > 0 {
		var lp legacyPayload
		if err := sonic.Unmarshal(m.BagrutLegacyPayload, &lp); err != nil {
			return nil, fmt.Errorf("decode legacy payload: %w", err)
		}
		rec.GradingDetails = lp.GradingDetails
		rec.MagenBagrut = lp.MagenBagrut
	}
	ts := m.UpdatedAt
	rec.UpdatedAt = &ts
	return rec, nil
}

// decompose writes the (current-schema) record back into the row's columns.
// A migrated record carries no legacy remnants, so the payload column clears.
func (s *Service) decompose(m *model.BagrutModel, rec *engine.ExamRecord) error {
	pres, err := sonic.Marshal(rec.Presentations)
	if err != nil {
		return fmt.Errorf("encode presentations: %w", err)
	}
	m.BagrutPresentations = datatypes.JSON(pres)

	if rec.Program != nil {
		prog, err := sonic.Marshal(rec.Program)
		if err != nil {
			return fmt.Errorf("encode program: %w", err)
		}
		m.BagrutProgram = datatypes.JSON(prog)
	}
	if rec.Documents != nil {
		docs, err := sonic.Marshal(rec.Documents)
		if err != nil {
			return fmt.Errorf("encode documents: %w", err)
		}
		m.BagrutDocuments = datatypes.JSON(docs)
	}

	m.BagrutRecitalUnits = rec.RecitalUnits
	if rec.RecitalField != "" {
		f := rec.RecitalField
		m.BagrutRecitalField = &f
	}

	if rec.GradingDetails == nil && rec.MagenBagrut == nil {
		m.BagrutLegacyPayload = nil
	}
	return nil
}

/* ================= CRUD ================= */

func (s *Service) Create(studentID, teacherID uuid.UUID, recitalUnits *int, recitalField *string) (*model.BagrutModel, *engine.ExamRecord, error) {
	units := engine.DefaultRecitalUnits
	if recitalUnits != nil {
		units = *recitalUnits
	}
	field := engine.DefaultRecitalField
	if recitalField != nil && *recitalField != "" {
		field = *recitalField
	}

	rec := engine.NewExamRecord(studentID.String(), teacherID.String(), units, field)
	m := &model.BagrutModel{
		BagrutStudentID:  studentID,
		BagrutTeacherID:  teacherID,
		BagrutIsMigrated: true, // born current-schema
	}
	if err := s.decompose(m, rec); err != nil {
		return nil, nil, err
	}
	if err := s.DB.Create(m).Error; err != nil {
		return nil, nil, err
	}
	return m, rec, nil
}

func (s *Service) GetByID(id uuid.UUID) (*model.BagrutModel, error) {
	var m model.BagrutModel
	if err := s.DB.First(&m, "bagrut_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) List(studentID, teacherID *uuid.UUID, offset, limit int) ([]model.BagrutModel, int64, error) {
	q := s.DB.Model(&model.BagrutModel{})
	if studentID != nil {
		q = q.Where("bagrut_student_id = ?", *studentID)
	}
	if teacherID != nil {
		q = q.Where("bagrut_teacher_id = ?", *teacherID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.BagrutModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Service) Delete(id uuid.UUID) error {
	res := s.DB.Delete(&model.BagrutModel{}, "bagrut_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* ================= presentation updates ================= */

// UpdatePresentation mutates one presentation in place and persists. apply
// is the DTO's field copier; the record is re-validated before the write and
// blocking errors abort it.
func (s *Service) UpdatePresentation(id uuid.UUID, index int, apply func(*engine.Presentation)) (*model.BagrutModel, *engine.ExamRecord, *engine.ValidationResult, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	rec, err := s.AssembleRecord(m)
	if err != nil {
		return nil, nil, nil, err
	}
	if index < 0 || index >= len(rec.Presentations) {
		return nil, nil, nil, fmt.Errorf("presentation index %d out of range", index)
	}

	apply(&rec.Presentations[index])

	vr := s.validator.Validate(rec)
	if !vr.IsValid {
		return m, rec, &vr, nil
	}

	if err := s.decompose(m, rec); err != nil {
		return nil, nil, nil, err
	}
	if err := s.DB.Save(m).Error; err != nil {
		return nil, nil, nil, err
	}
	return m, rec, &vr, nil
}

/* ================= core pipeline ================= */

// Detect classifies the stored record without writing anything.
func (s *Service) Detect(m *model.BagrutModel) (*engine.ExamRecord, engine.DetectionResult, error) {
	rec, err := s.AssembleRecord(m)
	if err != nil {
		return nil, engine.DetectionResult{}, err
	}
	return rec, s.detector.Detect(rec), nil
}

// MigrationOutcome is what a migrate call hands back to the controller.
type MigrationOutcome struct {
	Detection  engine.DetectionResult
	Migration  *engine.MigrationResult
	Validation *engine.ValidationResult
	Persisted  bool
	Record     *engine.ExamRecord
}

// Migrate runs the full pipeline: detect, migrate when needed, validate, and
// persist only a successful migration of a valid record. A failed migration
// is never written back.
func (s *Service) Migrate(id uuid.UUID) (*MigrationOutcome, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	rec, det, err := s.Detect(m)
	if err != nil {
		return nil, err
	}

	out := &MigrationOutcome{Detection: det, Record: rec}
	if !det.NeedsMigration {
		vr := s.validator.Validate(rec)
		out.Validation = &vr
		return out, nil
	}

	mig := s.migrator.Migrate(rec)
	out.Migration = &mig
	if !mig.Success {
		return out, nil
	}
	out.Record = mig.MigratedData

	vr := s.validator.Validate(mig.MigratedData)
	out.Validation = &vr
	if !vr.IsValid {
		return out, nil
	}

	if err := s.decompose(m, mig.MigratedData); err != nil {
		return nil, err
	}
	m.BagrutIsMigrated = true
	if err := s.DB.Save(m).Error; err != nil {
		return nil, err
	}
	out.Persisted = true
	return out, nil
}

// Validate returns the validator's view of the stored record.
func (s *Service) Validate(id uuid.UUID) (*engine.ValidationResult, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	rec, err := s.AssembleRecord(m)
	if err != nil {
		return nil, err
	}
	vr := s.validator.Validate(rec)
	return &vr, nil
}

// Grade computes the weighted final grade for the stored record.
func (s *Service) Grade(id uuid.UUID, includeMagenBonus bool) (*engine.GradeComputation, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	rec, err := s.AssembleRecord(m)
	if err != nil {
		return nil, err
	}
	res := s.calc.CalculateFinalGrade(rec.Presentations, engine.CalcOptions{IncludeMagenBonus: includeMagenBonus})
	return &res, nil
}

// Report builds the full progress report for the stored record.
func (s *Service) Report(id uuid.UUID) (*engine.ProgressReport, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	rec, err := s.AssembleRecord(m)
	if err != nil {
		return nil, err
	}
	rep := s.reporter.BuildReport(rec)
	return &rep, nil
}

// Package store persists analysis runs. Runs are derived data: everything
// here can be rebuilt by re-running the pipeline on fresh extraction input.
// At-rest field encryption is handled outside this service.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
)

// AnalysisRun is one persisted snapshot of a pipeline result.
type AnalysisRun struct {
	ID          string `gorm:"primaryKey"`
	ApplicantID string `gorm:"index"`
	CreatedAt   time.Time
	Result      []byte // JSON-encoded pipeline.Result
	DataQuality []byte // JSON-encoded row issues reported during ingest
}

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("analysis run not found")

type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dbPath and migrates the schema.
func Open(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&AnalysisRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun persists one analysis result under the given run id.
func (s *Store) SaveRun(runID, applicantID string, result *pipeline.Result, dataQuality interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	qualityJSON, err := json.Marshal(dataQuality)
	if err != nil {
		return fmt.Errorf("failed to encode data-quality report: %w", err)
	}

	run := AnalysisRun{
		ID:          runID,
		ApplicantID: applicantID,
		CreatedAt:   time.Now().UTC(),
		Result:      resultJSON,
		DataQuality: qualityJSON,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

// GetRun loads one run by id.
func (s *Store) GetRun(runID string) (*AnalysisRun, error) {
	var run AnalysisRun
	err := s.db.First(&run, "id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis run: %w", err)
	}
	return &run, nil
}

// ListRuns returns all runs for one applicant, newest first.
func (s *Store) ListRuns(applicantID string) ([]AnalysisRun, error) {
	var runs []AnalysisRun
	err := s.db.Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return runs, nil
}

// DecodeResult unmarshals the stored pipeline result.
func (r *AnalysisRun) DecodeResult() (*pipeline.Result, error) {
	var result pipeline.Result
	if err := json.Unmarshal(r.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return &result, nil
}

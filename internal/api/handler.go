// Package api exposes the analyzer over HTTP for the upload workflow and
// the review UI. The engine itself stays pure; this layer owns request
// decoding, persistence, and logging.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/statement-analyzer/internal/ingest"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/report"
	"github.com/insightdelivered/statement-analyzer/internal/store"
)

const version = "1.0.0"

// AnalyzeRequest carries one applicant's extracted statements.
type AnalyzeRequest struct {
	ApplicantID string                `json:"applicantId"`
	Statements  []ingest.RawStatement `json:"statements"`
}

// RowIssue reports one raw field the ingest step could not parse. The row
// was skipped, not silently coerced; underwriting needs to see every gap in
// data quality.
type RowIssue struct {
	StatementID string `json:"statementId"`
	SourceFile  string `json:"sourceFile,omitempty"`
	Row         int    `json:"row"`
	Field       string `json:"field"`
	Value       string `json:"value"`
	Error       string `json:"error"`
}

// AnalyzeResponse is the JSON response from POST /api/analyze.
type AnalyzeResponse struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	RunID       string           `json:"runId,omitempty"`
	ApplicantID string           `json:"applicantId,omitempty"`
	Result      *pipeline.Result `json:"result,omitempty"`
	DataQuality []RowIssue       `json:"dataQuality"`
}

// RunSummary describes one stored run in list responses.
type RunSummary struct {
	RunID       string    `json:"runId"`
	ApplicantID string    `json:"applicantId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Log   *logrus.Logger
	Store *store.Store
	Pipe  *pipeline.Pipeline
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/analyze", h.handleAnalyze)
	app.Get("/api/runs", h.handleListRuns)
	app.Get("/api/runs/:id", h.handleGetRun)
	app.Get("/api/runs/:id/accounts/:accountID/ledger.csv", h.handleLedgerCSV)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"engine":  "fiber",
	})
}

func (h *Handler) handleAnalyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if req.ApplicantID == "" {
		return writeError(c, fiber.StatusBadRequest, "applicantId is required")
	}
	if len(req.Statements) == 0 {
		return writeError(c, fiber.StatusBadRequest, "at least one statement is required")
	}

	statements := make([]models.Statement, 0, len(req.Statements))
	issues := []RowIssue{}
	totalRows, parsedRows := 0, 0
	for _, raw := range req.Statements {
		totalRows += len(raw.Transactions)
		st, errs := ingest.ParseStatement(raw)
		parsedRows += len(st.Transactions)
		statements = append(statements, st)
		for _, err := range errs {
			issues = append(issues, toRowIssue(raw.SourceFile, err))
		}
	}

	// A run with rows where nothing survived parsing has no signal to
	// extract; surface the row errors instead of an empty analysis.
	if totalRows > 0 && parsedRows == 0 {
		h.Log.WithField("applicant", req.ApplicantID).
			Warn("all extracted rows malformed, rejecting analysis request")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(AnalyzeResponse{
			Success:     false,
			Error:       "no transaction rows could be parsed",
			ApplicantID: req.ApplicantID,
			DataQuality: issues,
		})
	}

	result := h.Pipe.Analyze(statements)

	runID := uuid.NewString()
	if err := h.Store.SaveRun(runID, req.ApplicantID, result, issues); err != nil {
		h.Log.WithError(err).Error("failed to persist analysis run")
		return writeError(c, fiber.StatusInternalServerError, "failed to persist analysis run")
	}

	return c.JSON(AnalyzeResponse{
		Success:     true,
		RunID:       runID,
		ApplicantID: req.ApplicantID,
		Result:      result,
		DataQuality: issues,
	})
}

func (h *Handler) handleGetRun(c *fiber.Ctx) error {
	run, err := h.Store.GetRun(c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "run not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("failed to load analysis run")
		return writeError(c, fiber.StatusInternalServerError, "failed to load analysis run")
	}

	result, err := run.DecodeResult()
	if err != nil {
		h.Log.WithError(err).Error("stored run is unreadable")
		return writeError(c, fiber.StatusInternalServerError, "stored run is unreadable")
	}

	var issues []RowIssue
	if len(run.DataQuality) > 0 {
		if err := json.Unmarshal(run.DataQuality, &issues); err != nil {
			h.Log.WithError(err).Warn("stored data-quality report is unreadable")
		}
	}

	return c.JSON(AnalyzeResponse{
		Success:     true,
		RunID:       run.ID,
		ApplicantID: run.ApplicantID,
		Result:      result,
		DataQuality: issues,
	})
}

func (h *Handler) handleListRuns(c *fiber.Ctx) error {
	applicantID := c.Query("applicant")
	if applicantID == "" {
		return writeError(c, fiber.StatusBadRequest, "applicant query parameter is required")
	}
	runs, err := h.Store.ListRuns(applicantID)
	if err != nil {
		h.Log.WithError(err).Error("failed to list analysis runs")
		return writeError(c, fiber.StatusInternalServerError, "failed to list analysis runs")
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, RunSummary{
			RunID:       run.ID,
			ApplicantID: run.ApplicantID,
			CreatedAt:   run.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"success": true, "runs": summaries})
}

func (h *Handler) handleLedgerCSV(c *fiber.Ctx) error {
	run, err := h.Store.GetRun(c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "run not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("failed to load analysis run")
		return writeError(c, fiber.StatusInternalServerError, "failed to load analysis run")
	}

	result, err := run.DecodeResult()
	if err != nil {
		h.Log.WithError(err).Error("stored run is unreadable")
		return writeError(c, fiber.StatusInternalServerError, "stored run is unreadable")
	}

	accountID := c.Params("accountID")
	for i := range result.Accounts {
		if result.Accounts[i].ID != accountID {
			continue
		}
		var buf bytes.Buffer
		w := &report.CSVWriter{IncludeHeader: true}
		if err := w.Write(&buf, &result.Accounts[i]); err != nil {
			h.Log.WithError(err).Error("failed to render ledger CSV")
			return writeError(c, fiber.StatusInternalServerError, "failed to render ledger CSV")
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="ledger.csv"`)
		return c.Send(buf.Bytes())
	}
	return writeError(c, fiber.StatusNotFound, "account not found in run")
}

func toRowIssue(sourceFile string, err error) RowIssue {
	var malformed *models.MalformedTransactionError
	if errors.As(err, &malformed) {
		return RowIssue{
			StatementID: malformed.StatementID,
			SourceFile:  sourceFile,
			Row:         malformed.Row,
			Field:       malformed.Field,
			Value:       malformed.Value,
			Error:       malformed.Err.Error(),
		}
	}
	return RowIssue{SourceFile: sourceFile, Row: -1, Error: err.Error()}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success:     false,
		Error:       msg,
		DataQuality: []RowIssue{},
	})
}

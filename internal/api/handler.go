package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/phonepe-statement-converter/internal/aggregate"
	"github.com/insightdelivered/phonepe-statement-converter/internal/extractor"
	"github.com/insightdelivered/phonepe-statement-converter/internal/logger"
	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
	"github.com/insightdelivered/phonepe-statement-converter/internal/parser"
	"github.com/insightdelivered/phonepe-statement-converter/internal/writer"
)

// maxUploadBytes bounds the multipart body of /api/convert.
const maxUploadBytes = 32 << 20

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	RunID        string              `json:"runId,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Report       *models.Report      `json:"report,omitempty"`
	Chart        []aggregate.Slice   `json:"chart,omitempty"`
	Stats        *models.ParseStats  `json:"stats,omitempty"`
	Trace        []models.BlockTrace `json:"trace,omitempty"`
	CSV          string              `json:"csv,omitempty"`
	GroupedCSV   string              `json:"groupedCsv,omitempty"`
	CashewCSV    string              `json:"cashewCsv,omitempty"`
	Count        int                 `json:"count"`
	Version      string              `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Version    string
	StaticDir  string
	Categories *writer.CategoryTable
	TopGroups  int
	Log        zerolog.Logger
}

// NewApp returns a fiber app with the API routes and panic recovery installed.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "phonepe-statement-converter",
		BodyLimit: maxUploadBytes,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)

	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
		"engine":  "fiber",
	})
}

// HandleConvert accepts a statement PDF (form field "file", optional
// "password") or pre-extracted text ("extractedText") and returns the parsed
// transactions, the aggregate report and CSV renderings of both.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	runID := uuid.NewString()
	log := h.Log.With().Str("run_id", runID).Logger()
	c.SetUserContext(logger.WithContext(c.UserContext(), log))

	text, status, err := h.statementText(c)
	if err != nil {
		log.Warn().Err(err).Int("status", status).Msg("Could not read statement")
		return writeError(c, status, err.Error())
	}

	stmt, err := parser.ParseText(text)
	logger.ParseStats(log, stmt)
	if errors.Is(err, parser.ErrNoTransactions) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ConvertResponse{
			Success:      false,
			Error:        "No transactions found.",
			RunID:        runID,
			Transactions: []models.Transaction{},
			Stats:        &stmt.Stats,
			Trace:        stmt.Trace,
			Version:      h.Version,
		})
	}
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	txns := stmt.Transactions
	if c.FormValue("unifyKinds") == "true" {
		txns = models.UnifyKinds(txns)
	}
	report := aggregate.Aggregate(txns)

	var csvBuf, groupedBuf, cashewBuf bytes.Buffer
	if err := (&writer.CSVWriter{}).Write(&csvBuf, txns); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}
	if err := (&writer.GroupedCSVWriter{}).Write(&groupedBuf, report); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Grouped CSV generation failed: %v", err))
	}
	if err := (&writer.CashewWriter{Categories: h.Categories}).Write(&cashewBuf, txns); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Cashew CSV generation failed: %v", err))
	}

	log.Info().Int("transactions", len(txns)).Msg("Converted statement")

	return c.JSON(ConvertResponse{
		Success:      true,
		RunID:        runID,
		Transactions: txns,
		Report:       &report,
		Chart:        aggregate.TopGroups(report, h.topGroups()),
		Stats:        &stmt.Stats,
		Trace:        stmt.Trace,
		CSV:          csvBuf.String(),
		GroupedCSV:   groupedBuf.String(),
		CashewCSV:    cashewBuf.String(),
		Count:        len(txns),
		Version:      h.Version,
	})
}

// statementText returns the text to parse and, on failure, the HTTP status
// to report.
func (h *Handler) statementText(c *fiber.Ctx) (string, int, error) {
	log := logger.FromContext(c.UserContext())

	// Text already extracted client-side (e.g. with pdf.js) skips the PDF step.
	if text := c.FormValue("extractedText"); strings.TrimSpace(text) != "" {
		log.Debug().Int("bytes", len(text)).Msg("Using client-extracted text")
		return text, fiber.StatusOK, nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", fiber.StatusBadRequest, errors.New("No file uploaded. Use form field 'file'.")
	}
	log.Info().Str("file", header.Filename).Int64("size", header.Size).Msg("Received upload")

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return "", fiber.StatusBadRequest, errors.New("Only PDF or text files are supported.")
	}

	tmpFile, err := os.CreateTemp("", "statement-*"+ext)
	if err != nil {
		return "", fiber.StatusInternalServerError, errors.New("Failed to create temp file.")
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(header, tmpPath); err != nil {
		return "", fiber.StatusInternalServerError, errors.New("Failed to save uploaded file.")
	}

	if ext == ".txt" {
		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return "", fiber.StatusInternalServerError, errors.New("Failed to read uploaded file.")
		}
		return string(data), fiber.StatusOK, nil
	}

	text, err := extractor.ExtractTextCombined(tmpPath, c.FormValue("password"))
	if errors.Is(err, extractor.ErrPasswordRequired) {
		return "", fiber.StatusUnauthorized, errors.New("PDF is password protected. Password required or incorrect password.")
	}
	if err != nil {
		return "", fiber.StatusUnprocessableEntity, fmt.Errorf("PDF extraction failed: %v", err)
	}
	log.Debug().Int("chars", len(text)).Msg("Extracted PDF text")
	return text, fiber.StatusOK, nil
}

func (h *Handler) topGroups() int {
	if h.TopGroups <= 0 {
		return 15
	}
	return h.TopGroups
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}

package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

func TestNew(t *testing.T) {
	log := New("debug")
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", log.GetLevel())
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	log := New("chatty")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level fallback, got %s", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestParseStats(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf).Level(zerolog.DebugLevel)

	ParseStats(log, &models.Statement{
		Stats: models.ParseStats{Blocks: 3, Parsed: 2, Dropped: 1, ByLayout: map[string]int{"column": 2}},
		Trace: []models.BlockTrace{
			{Index: 0, Header: "Transaction Statement", Lines: 3, Result: models.BlockDropped},
			{Index: 1, Header: "Jan 05, 2024", Lines: 9, Result: models.BlockParsed, Layout: "column"},
		},
	})

	out := buf.String()
	if !strings.Contains(out, `"dropped":1`) {
		t.Errorf("Expected dropped count in output, got: %s", out)
	}
	if !strings.Contains(out, "Transaction Statement") {
		t.Errorf("Expected dropped block header in output, got: %s", out)
	}
	if strings.Contains(out, `"header":"Jan 05, 2024"`) {
		t.Errorf("Parsed block should not be logged as dropped: %s", out)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/phonepe-statement-converter/internal/aggregate"
	"github.com/insightdelivered/phonepe-statement-converter/internal/api"
	"github.com/insightdelivered/phonepe-statement-converter/internal/config"
	"github.com/insightdelivered/phonepe-statement-converter/internal/extractor"
	"github.com/insightdelivered/phonepe-statement-converter/internal/logger"
	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
	"github.com/insightdelivered/phonepe-statement-converter/internal/parser"
	"github.com/insightdelivered/phonepe-statement-converter/internal/writer"
)

const version = "1.0.0"

// globals is bound into every command's Run.
type globals struct {
	cfg *config.Config
	log zerolog.Logger
}

var cli struct {
	LogLevel string `name:"log-level" default:"${log_level}" help:"Log level (debug, info, warn, error)."`

	Convert convertCmd `cmd:"" help:"Convert statement PDFs or extracted text to CSV."`
	Serve   serveCmd   `cmd:"" help:"Run the conversion web server."`
	Version versionCmd `cmd:"" help:"Print version and exit."`
}

func main() {
	cfg := config.Load()

	ctx := kong.Parse(&cli,
		kong.Name("phonepe-statement-converter"),
		kong.Description("Converts PhonePe transaction statement PDFs into CSV files for analysis."),
		kong.UsageOnError(),
		kong.Vars{
			"log_level":  cfg.LogLevel,
			"port":       cfg.ServerPort,
			"static_dir": cfg.StaticDir,
			"output_dir": cfg.OutputDir,
			"categories": cfg.CategoryFile,
		},
	)

	err := ctx.Run(&globals{cfg: cfg, log: logger.New(cli.LogLevel)})
	ctx.FatalIfErrorf(err)
}

type convertCmd struct {
	Inputs     []string `arg:"" name:"input" type:"existingfile" help:"Statement PDF(s), or .txt files holding already extracted text."`
	Password   string   `help:"Password for encrypted PDFs. Falls back to STATEMENT_PASSWORD."`
	OutputDir  string   `name:"output-dir" default:"${output_dir}" help:"Directory for output files (defaults to next to each input)."`
	Grouped    bool     `default:"true" negatable:"" help:"Also write the per-payee summary CSV."`
	Cashew     bool     `help:"Also write a Cashew budgeting app import CSV."`
	Categories string   `default:"${categories}" help:"Payee,Category[,Note] CSV used to fill the Cashew export."`
	UnifyKinds bool     `name:"unify-kinds" help:"Fold narrative labels such as 'Paid to X' into DEBIT/CREDIT."`
}

func (c *convertCmd) Run(g *globals) error {
	if c.Password == "" {
		c.Password = g.cfg.Password
	}

	var categories *writer.CategoryTable
	if c.Categories != "" {
		table, err := writer.LoadCategoryFile(c.Categories)
		if err != nil {
			return err
		}
		categories = table
		g.log.Info().Int("payees", table.Len()).Str("file", c.Categories).Msg("Loaded categories")
	}

	for _, input := range c.Inputs {
		log := g.log.With().Str("input", input).Logger()
		if err := c.convert(log, input, categories); err != nil {
			return fmt.Errorf("processing %s: %w", input, err)
		}
	}
	return nil
}

func (c *convertCmd) convert(log zerolog.Logger, inputPath string, categories *writer.CategoryTable) error {
	text, err := readStatement(inputPath, c.Password)
	if err != nil {
		return err
	}

	stmt, err := parser.ParseText(text)
	logger.ParseStats(log, stmt)
	if errors.Is(err, parser.ErrNoTransactions) {
		log.Warn().Msg("No transactions found. The text may not come from a supported statement layout.")
	} else if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	txns := stmt.Transactions
	if c.UnifyKinds {
		txns = models.UnifyKinds(txns)
	}

	dir := c.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	csvPath := filepath.Join(dir, base+".csv")
	if err := (&writer.CSVWriter{}).WriteToFile(csvPath, txns); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	log.Info().Str("output", csvPath).Int("transactions", len(txns)).Msg("Wrote transactions")

	if c.Grouped {
		groupedPath := filepath.Join(dir, base+"_grouped.csv")
		report := aggregate.Aggregate(txns)
		if err := (&writer.GroupedCSVWriter{}).WriteToFile(groupedPath, report); err != nil {
			return fmt.Errorf("grouped CSV write failed: %w", err)
		}
		log.Info().
			Str("output", groupedPath).
			Str("most_sent_to", report.MostSentTo.Key).
			Str("average_daily", report.AverageDaily.StringFixed(2)).
			Msg("Wrote summary")
	}

	if c.Cashew {
		path, err := (&writer.CashewWriter{Categories: categories}).WriteToDir(dir, txns, time.Now())
		if err != nil {
			return fmt.Errorf("cashew CSV write failed: %w", err)
		}
		log.Info().Str("output", path).Msg("Wrote Cashew export")
	}
	return nil
}

// readStatement returns the statement text of a PDF or a pre-extracted .txt file.
func readStatement(inputPath, password string) (string, error) {
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".pdf":
		text, err := extractor.ExtractTextCombined(inputPath, password)
		if errors.Is(err, extractor.ErrPasswordRequired) {
			return "", fmt.Errorf("%w (use --password or STATEMENT_PASSWORD)", err)
		}
		if err != nil {
			return "", fmt.Errorf("PDF extraction failed: %w", err)
		}
		return text, nil
	case ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("expected .pdf or .txt file, got %q", filepath.Ext(inputPath))
	}
}

type serveCmd struct {
	Port       string `default:"${port}" help:"Port to listen on."`
	StaticDir  string `name:"static-dir" default:"${static_dir}" help:"Directory of web assets served at /."`
	Categories string `default:"${categories}" help:"Payee,Category[,Note] CSV used to fill the Cashew export."`
}

func (s *serveCmd) Run(g *globals) error {
	var categories *writer.CategoryTable
	if s.Categories != "" {
		table, err := writer.LoadCategoryFile(s.Categories)
		if err != nil {
			return err
		}
		categories = table
	}

	app := api.NewApp(&api.Handler{
		Version:    version,
		StaticDir:  s.StaticDir,
		Categories: categories,
		TopGroups:  g.cfg.TopGroups,
		Log:        g.log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		g.log.Info().Str("port", s.Port).Str("static_dir", s.StaticDir).Msg("Starting server")
		errCh <- app.Listen(":" + s.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		g.log.Info().Msg("Shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

type versionCmd struct{}

func (v *versionCmd) Run() error {
	fmt.Printf("phonepe-statement-converter v%s\n", version)
	return nil
}

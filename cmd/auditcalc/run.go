package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ChicagoDave/auditcalc/internal/metrics"
	"github.com/ChicagoDave/auditcalc/pkg/audit"
	"github.com/ChicagoDave/auditcalc/pkg/report"
	"github.com/ChicagoDave/auditcalc/pkg/validation"
)

// loadAndValidate loads the audit document and runs schema validation.
func loadAndValidate(opts *options, projectPath string) (*audit.Document, *validation.Report, error) {
	doc, err := audit.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading audit: %w", err)
	}
	env := opts.cfg.Env(nil)
	log.Debug().Str("project", projectPath).Interface("sections", doc.Counts()).Msg("audit loaded")
	return doc, validation.ValidateSchema(doc, env.Constants), nil
}

func runValidate(opts *options, projectPath string) error {
	doc, schemaReport, err := loadAndValidate(opts, projectPath)
	if err != nil {
		return err
	}

	env := opts.cfg.Env(nil)
	schemaReport.Merge(validation.ValidateAnalytical(doc, env.Constants, env.Solver))

	printValidationReport(schemaReport)

	if !schemaReport.Valid {
		os.Exit(1)
	}
	return nil
}

// evaluate validates the document and computes every section.
func evaluate(ctx context.Context, opts *options, projectPath string) (*audit.Results, error) {
	doc, schemaReport, err := loadAndValidate(opts, projectPath)
	if err != nil {
		return nil, err
	}
	if err := schemaReport.Err(); err != nil {
		printValidationReport(schemaReport)
		return nil, err
	}

	res, err := audit.Evaluate(ctx, doc, opts.cfg.Env(metrics.Recorder{}))
	if err != nil {
		return nil, fmt.Errorf("evaluating audit: %w", err)
	}
	return res, nil
}

func runAudit(ctx context.Context, opts *options, projectPath string, asJSON bool) error {
	res, err := evaluate(ctx, opts, projectPath)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printReport(report.Build(res))
	return nil
}

func runExport(ctx context.Context, opts *options, projectPath, format, out string) error {
	var write func(io.Writer, *report.Report) error
	switch format {
	case "xlsx":
		write = report.WriteXLSX
	case "pdf":
		write = report.WritePDF
	default:
		return fmt.Errorf("unknown format %q (want xlsx or pdf)", format)
	}
	if out == "" {
		out = filepath.Join(projectPath, "audit."+format)
	}

	res, err := evaluate(ctx, opts, projectPath)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	err = write(f, report.Build(res))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	metrics.IncReportExport(format, err)
	if err != nil {
		return fmt.Errorf("writing %s report: %w", format, err)
	}

	log.Info().Str("format", format).Str("path", out).Msg("report written")
	return nil
}

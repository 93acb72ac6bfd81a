// =============================================================================
// Ledger Import - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates one
// generation run, from reading the journal to writing the ledger document
// and its audit trail.
//
// CONVERSION PIPELINE:
//   1. Check the order header input (company code)
//   2. Read the journal (XLSX or CSV) into a table
//   3. Build the account directory: external snapshot, else fallback table
//   4. Resolve the required columns (abort when any is missing)
//   5. Transform every row, in order, into a line item or a skip
//   6. Build the ledger document from the emitted items
//   7. Write the audit trail (always, even for an empty document)
//   8. Validate and write the document, or remove a stale one when empty
//
// CONCURRENCY:
//   A run is single-threaded. Run state lives in a Run value created per
//   call, so a Converter can be reused for any number of runs.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/apperrors"
	"github.com/ginjaninja78/ledger-import/internal/audit"
	"github.com/ginjaninja78/ledger-import/internal/columns"
	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/ginjaninja78/ledger-import/internal/csvparser"
	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/ledger"
	"github.com/ginjaninja78/ledger-import/internal/logger"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/ginjaninja78/ledger-import/internal/validation"
	"github.com/ginjaninja78/ledger-import/internal/xlsxparser"
	"github.com/ginjaninja78/ledger-import/internal/xmlwriter"
	"github.com/ginjaninja78/ledger-import/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path of the generated XML file. It is set when the
	// document was written, or would have been in a dry run.
	OutputFile string

	// AuditFile is the path of the audit trail, empty when it was not written.
	AuditFile string

	// Success indicates whether a document was produced.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// AuditError is set when the audit trail could not be written. It never
	// affects Success.
	AuditError error

	// Validation is the document validation result, nil when no document
	// was built.
	Validation *validation.ValidationResult

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of journal rows processed.
	RowsProcessed int

	// LineItemsCreated is the number of line items in the document.
	LineItemsCreated int

	// RowsSkipped is the number of rows that produced no line item.
	RowsSkipped int

	// SkipsByReason breaks RowsSkipped down by skip reason.
	SkipsByReason map[types.SkipReason]int

	// AccountsUsed is the number of account descriptor blocks.
	AccountsUsed int

	// DirectorySource is "external" or "embedded".
	DirectorySource string

	// DirectorySize is the number of resolvable account codes.
	DirectorySize int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// IN-MEMORY PIPELINE
// =============================================================================

// ProcessOptions configures Process.
type ProcessOptions struct {
	// RunID tags the run; empty means a new UUID.
	RunID string

	// Header holds the user supplied header fields.
	Header ledger.HeaderOptions

	// Synonyms extends the built-in column synonyms.
	Synonyms map[string][]string

	// Now provides the fallback document date; nil means time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// Report is the in-memory result of processing a table.
type Report struct {
	RunID    string
	Mapping  columns.Mapping
	Document *ledger.Document
	Audit    []types.AuditEntry
	Stats    ProcessingStats
}

// Process runs column resolution, row transformation and document assembly
// over a table. It performs no I/O.
//
// RETURNS:
//   - *apperrors.ColumnResolutionError and no report when a required column
//     is missing
//   - apperrors.ErrDocumentEmpty and a report with the audit trail but no
//     document when every row was skipped
func Process(table *types.Table, dir *directory.Directory, opts ProcessOptions) (*Report, error) {
	mapping, missing := columns.NewResolver(opts.Synonyms).Resolve(columns.Required, table.Headers)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, &apperrors.ColumnResolutionError{Missing: names}
	}

	run := NewRun(opts.RunID, dir, mapping, opts.Logger)
	for _, row := range table.Rows {
		run.Add(row)
	}

	report := &Report{
		RunID:   run.ID,
		Mapping: mapping,
		Audit:   run.Audit(),
		Stats: ProcessingStats{
			RowsProcessed:    len(table.Rows),
			LineItemsCreated: len(run.Items()),
			RowsSkipped:      len(table.Rows) - len(run.Items()),
			SkipsByReason:    run.SkipCounts(),
			DirectorySource:  dir.Source().String(),
			DirectorySize:    dir.Len(),
		},
	}

	builder := ledger.NewBuilder(opts.Header, opts.Now)
	doc, err := builder.Build(run.Items(), run.UsedAccounts(), run.HeaderDate(), dir)
	if err != nil {
		return report, err
	}

	report.Document = doc
	report.Stats.AccountsUsed = len(doc.Accounts)
	return report, nil
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options are the per-run inputs, typically from command-line flags. Blank
// fields fall back to the configuration.
type Options struct {
	// InputPath is the journal file (.xlsx, .xlsm or .csv).
	InputPath string

	// OutputPath overrides the derived document path.
	OutputPath string

	CompanyCode string
	OrderType   string
	Note        string

	// DryRun processes everything but writes no files.
	DryRun bool
}

// Converter runs generations against files.
type Converter struct {
	cfg      *config.MainConfig
	provider directory.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a Converter. provider may be nil, in which case only the
// fallback account table is used.
func New(cfg *config.MainConfig, provider directory.Provider, log zerolog.Logger) *Converter {
	return &Converter{
		cfg:      cfg,
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for the fallback document date and
// output names.
func (c *Converter) WithClock(now func() time.Time) *Converter {
	c.now = now
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for one input file.
func (c *Converter) Run(ctx context.Context, opts Options) (result Result) {
	start := time.Now()
	runID := uuid.New().String()
	log := logger.WithRun(c.logger, runID)
	ctx = logger.WithContext(ctx, log)

	result = Result{RunID: runID, FilePath: opts.InputPath}
	defer func() { result.Stats.ProcessingTime = time.Since(start) }()

	header := c.headerOptions(opts)
	if header.CompanyCode == "" {
		result.Error = apperrors.ErrMissingCompany
		return result
	}

	// =========================================================================
	// STEP 1: READ THE JOURNAL
	// =========================================================================

	log.Info().Str("file", opts.InputPath).Msg("processing journal")

	table, err := ReadTable(opts.InputPath, c.cfg.Input)
	if err != nil {
		result.Error = err
		return result
	}

	log.Debug().Int("rows", len(table.Rows)).Strs("headers", table.Headers).Msg("journal read")

	// =========================================================================
	// STEP 2: BUILD THE ACCOUNT DIRECTORY
	// =========================================================================

	dir := c.loadDirectory(ctx)

	// =========================================================================
	// STEP 3: TRANSFORM ROWS AND BUILD THE DOCUMENT
	// =========================================================================

	report, err := Process(table, dir, ProcessOptions{
		RunID:    runID,
		Header:   header,
		Synonyms: c.cfg.Columns.Synonyms,
		Now:      c.now,
		Logger:   log,
	})

	var colErr *apperrors.ColumnResolutionError
	if errors.As(err, &colErr) {
		log.Error().Strs("missing", colErr.Missing).Msg("required columns missing")
		result.Error = err
		return result
	}
	result.Stats = report.Stats

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = utils.OutputPath(opts.InputPath, c.cfg.OutputDir, c.cfg.OutputNameFormat, c.now())
	}
	auditPath := utils.AuditPath(outputPath, c.cfg.AuditFileName)

	// =========================================================================
	// STEP 4: WRITE THE AUDIT TRAIL
	// =========================================================================
	// Written for empty documents too, so rejected rows can be diagnosed.

	if !opts.DryRun {
		if auditErr := audit.WriteFile(auditPath, report.Audit); auditErr != nil {
			log.Warn().Err(auditErr).Str("file", auditPath).Msg("audit trail not written")
			result.AuditError = auditErr
		} else {
			result.AuditFile = auditPath
		}
	}

	if errors.Is(err, apperrors.ErrDocumentEmpty) {
		c.removeStaleOutput(log, outputPath, opts.DryRun)
		log.Warn().
			Int("rows", report.Stats.RowsProcessed).
			Int("code_not_found", report.Stats.SkipsByReason[types.ReasonCodeNotFound]).
			Msg("no line items generated")
		result.Error = err
		return result
	}
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 5: VALIDATE AND WRITE THE DOCUMENT
	// =========================================================================

	if err := c.writeDocument(log, report.Document, outputPath, opts.DryRun, &result); err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = outputPath
	result.Success = true

	log.Info().
		Str("output", outputPath).
		Int("items", report.Stats.LineItemsCreated).
		Int("code_not_found", report.Stats.SkipsByReason[types.ReasonCodeNotFound]).
		Str("directory", report.Stats.DirectorySource).
		Bool("dry_run", opts.DryRun).
		Msg("ledger document generated")

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ReadTable reads a journal file by extension.
func ReadTable(path string, settings config.InputConfig) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		table, err := xlsxparser.Parse(path, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workbook: %w", err)
		}
		return table, nil
	case ".csv", ".txt":
		table, err := csvparser.Parse(path, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		return table, nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedInput, filepath.Base(path))
	}
}

// headerOptions merges flag values over the configured order settings.
func (c *Converter) headerOptions(opts Options) ledger.HeaderOptions {
	pick := func(flag, configured string) string {
		if v := strings.TrimSpace(flag); v != "" {
			return v
		}
		return strings.TrimSpace(configured)
	}

	return ledger.HeaderOptions{
		CompanyCode: pick(opts.CompanyCode, c.cfg.Order.CompanyCode),
		OrderType:   pick(opts.OrderType, c.cfg.Order.Type),
		Note:        pick(opts.Note, c.cfg.Order.Note),
	}
}

// loadDirectory loads the fallback table and the external snapshot and
// selects between them. Load failures are logged and never fatal.
func (c *Converter) loadDirectory(ctx context.Context) *directory.Directory {
	log := logger.FromContext(ctx)

	fallback, err := directory.LoadEmbeddedTable(c.cfg.FallbackAccountsFile)
	if err != nil {
		log.Warn().Err(err).Str("file", c.cfg.FallbackAccountsFile).Msg("fallback account table not loaded")
		fallback = directory.NewSnapshot()
	}

	var external *directory.Snapshot
	if c.provider != nil {
		external, err = c.provider.LoadAccounts(ctx)
		if err != nil {
			log.Warn().Err(fmt.Errorf("%w: %v", apperrors.ErrDirectoryUnavailable, err)).Msg("using fallback account table")
			external = nil
		}
	}

	dir := directory.Select(external, fallback)
	if dir.Len() == 0 {
		log.Warn().Err(apperrors.ErrDirectoryUnavailable).Msg("account directory is empty, every row will be skipped")
	}

	log.Info().Str("source", dir.Source().String()).Int("accounts", dir.Len()).Msg("account directory ready")
	return dir
}

// writeDocument validates the document and writes it atomically.
func (c *Converter) writeDocument(log zerolog.Logger, doc *ledger.Document, path string, dryRun bool, result *Result) error {
	check := validation.ValidateDocument(doc)
	result.Validation = check

	for _, e := range check.Errors {
		if e.Severity == validation.SeverityWarning {
			log.Warn().Msg(e.Error())
		}
	}
	if !check.IsValid {
		log.Error().Msg(validation.FormatErrors(check.Errors))
		return fmt.Errorf("%w: %d error(s)", apperrors.ErrInvalidDocument, check.ErrorCount)
	}

	if dryRun {
		return nil
	}

	opts := xmlwriter.DefaultGenerateOptions()
	opts.Indent = c.cfg.XMLIndent

	data, err := xmlwriter.GenerateWithOptions(doc, opts)
	if err != nil {
		return fmt.Errorf("failed to generate XML: %w", err)
	}

	if err := utils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// removeStaleOutput deletes a document left at the output path by an
// earlier run, so an empty run leaves no document behind.
func (c *Converter) removeStaleOutput(log zerolog.Logger, path string, dryRun bool) {
	if dryRun {
		return
	}
	removed, err := utils.RemoveIfExists(path)
	if err != nil {
		log.Warn().Err(err).Msg("stale document not removed")
		return
	}
	if removed {
		log.Info().Str("file", path).Msg("removed stale document")
	}
}

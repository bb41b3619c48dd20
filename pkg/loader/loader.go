// Package loader reads maintenance work-order exports into canonical
// records. It normalizes tolerant column headers, strips system audit
// trails from free text, corrects ATA chapters from manual references,
// and reports unparsable rows without aborting the load.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// ValidationError means the export itself is unusable (missing required
// columns, empty file). It is user-facing and aborts the load.
type ValidationError struct {
	MissingColumns []string
	Reason         string
}

func (e *ValidationError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("export is missing required columns: %s", strings.Join(e.MissingColumns, ", "))
	}
	return e.Reason
}

// RowError records one row that could not be turned into a valid record.
// Row errors are reported to the user but do not abort the run.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// Result is the outcome of loading one export.
type Result struct {
	Records   []model.WorkOrderRecord
	RowErrors []RowError
	// Excluded counts rows dropped because their ATA chapter is out of
	// analysis scope. These are valid rows, just not signal.
	Excluded int
}

// LoadFile reads a work-order export from a CSV file on disk.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open work-order export: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a work-order export from r. The first row must be a header.
func Load(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports are ragged; short rows read as empty cells
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ValidationError{Reason: "export is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}

	idx := resolveHeader(header)
	if missing := idx.missingRequired(); len(missing) > 0 {
		return nil, &ValidationError{MissingColumns: missing}
	}

	res := &Result{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if isBlankRow(row) {
			continue
		}

		rec, rowErr := buildRecord(idx, row, line)
		if rowErr != nil {
			res.RowErrors = append(res.RowErrors, *rowErr)
			continue
		}
		if rec == nil {
			res.Excluded++
			continue
		}
		res.Records = append(res.Records, *rec)
	}

	return res, nil
}

// buildRecord turns one CSV row into a record. Returns (nil, nil) for rows
// excluded by ATA chapter scope, and a RowError for rows missing identity.
func buildRecord(idx headerIndex, row []string, line int) (*model.WorkOrderRecord, *RowError) {
	aircraft := idx.get(row, ColAircraft)
	if aircraft == "" {
		return nil, &RowError{Line: line, Reason: "missing aircraft registration"}
	}

	filedATA := idx.get(row, ColATA)
	if filedATA == "" {
		return nil, &RowError{Line: line, Reason: "missing ATA chapter"}
	}
	if ShouldExcludeATA(filedATA) {
		return nil, nil
	}

	reported, ok := ParseReportedDate(idx.get(row, ColIssued))
	if !ok {
		return nil, &RowError{Line: line, Reason: fmt.Sprintf("unparsable issued date %q", idx.get(row, ColIssued))}
	}

	// Prefer the work-order description; fall back to the chapter
	// description when the specific one is blank.
	description := idx.get(row, ColDescription)
	if description == "" {
		description = idx.get(row, ColATADescription)
	}
	description = CleanAuditTrail(description)
	action := CleanAuditTrail(idx.get(row, ColAction))

	corrected := CorrectATA(description+" "+idx.get(row, ColATADescription), action, filedATA)

	rec := &model.WorkOrderRecord{
		Aircraft:       aircraft,
		WorkOrder:      idx.get(row, ColWorkOrder),
		ATA:            filedATA,
		ATACorrected:   corrected,
		ATASystem:      SystemCode(corrected),
		Description:    description,
		Action:         action,
		ResolutionType: model.NormalizeResolutionType(idx.get(row, ColType)),
		Station:        idx.get(row, ColStation),
		ReportedAt:     reported,
		SourceLine:     line,
	}
	if err := rec.Validate(); err != nil {
		return nil, &RowError{Line: line, Reason: err.Error()}
	}
	return rec, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

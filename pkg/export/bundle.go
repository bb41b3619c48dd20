package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// Bundle file names inside the export directory.
const (
	SummaryFile  = "summary.csv"
	RedFlagsFile = "red_flags.csv"
	MatrixSVG    = "matrix.svg"
	MatrixPNG    = "matrix.png"
)

// WriteBundle writes the complete export bundle to dir: the summary and
// red-flag CSVs plus the warning matrix in both image formats. The four
// files are independent, so they are written concurrently.
func WriteBundle(dir string, report *analysis.Report, stored map[string]model.EngineeringComment) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	matrix := analysis.BuildMatrix(report)

	var g errgroup.Group
	g.Go(func() error {
		return writeFile(filepath.Join(dir, SummaryFile), func(w io.Writer) error {
			return WriteSummaryCSV(w, report)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, RedFlagsFile), func(w io.Writer) error {
			return WriteRedFlagsCSV(w, report, stored)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, MatrixSVG), func(w io.Writer) error {
			return WriteMatrixSVG(w, matrix)
		})
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, MatrixPNG), func(w io.Writer) error {
			return WriteMatrixPNG(w, matrix)
		})
	})
	return g.Wait()
}

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Writer persists scenario outputs as flat files under one directory,
// namespaced by scenario tag. These two files are the whole persistence
// surface of the tool.
type Writer struct {
	outDir string
	logger *zap.Logger
}

// NewWriter wires a writer for the given output directory.
func NewWriter(outDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{outDir: outDir, logger: logger}
}

// DoseCSVPath returns the dose table path for a tag. An empty tag drops the
// suffix, matching the single-scenario file names.
func (w *Writer) DoseCSVPath(tag string) string {
	return filepath.Join(w.outDir, fmt.Sprintf("resultados_dosis%s.csv", tagSuffix(tag)))
}

// SummaryPath returns the cost summary path for a tag.
func (w *Writer) SummaryPath(tag string) string {
	return filepath.Join(w.outDir, fmt.Sprintf("_resumen%s.txt", tagSuffix(tag)))
}

func tagSuffix(tag string) string {
	if tag == "" {
		return ""
	}
	return "_" + tag
}

// Write persists the dose table and the cost summary for the result's tag.
func (w *Writer) Write(result models.ScenarioResult) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", w.outDir, err)
	}

	csvPath := w.DoseCSVPath(result.Tag)
	if err := w.writeDoseCSV(csvPath, result.Rows); err != nil {
		return err
	}

	txtPath := w.SummaryPath(result.Tag)
	summary := fmt.Sprintf("Costo total (CLP): %d\n", result.TotalCostCLP)
	if err := os.WriteFile(txtPath, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", txtPath, err)
	}

	w.logger.Info("scenario outputs written",
		zap.String("tag", result.Tag),
		zap.String("doses", csvPath),
		zap.String("summary", txtPath))
	return nil
}

func (w *Writer) writeDoseCSV(path string, rows []models.DoseRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dose table %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	records := [][]string{{"potrero", "producto", "kg_ha"}}
	for _, row := range rows {
		records = append(records, []string{row.Field, row.Product, fmt.Sprintf("%.2f", row.KgHa)})
	}
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write dose table %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close dose table %s: %w", path, err)
	}
	return nil
}

// Cleanup removes any stale outputs for the tag. It runs before a failing
// exit so a reader can never pick up files from an earlier successful run.
func (w *Writer) Cleanup(tag string) {
	for _, path := range []string{w.DoseCSVPath(tag), w.SummaryPath(tag)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed removing stale output", zap.String("path", path), zap.Error(err))
		}
	}
}

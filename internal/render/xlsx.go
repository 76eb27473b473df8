package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/trendscout/internal/domain"
)

// Sheet names of generated workbooks.
const (
	RepositoriesSheet = "Repositories"
	MetadataSheet     = "Metadata"
)

const defaultSheet = "Sheet1"

var repositoryColumns = []string{
	"Rank", "Owner", "Name", "URL", "Description", "Language",
	"Stars", "Forks", "Stars Gained", "Topics", "Summary", "Key Features", "Use Cases",
}

func repositoriesXLSX(w io.Writer, repos []domain.Repository) error {
	rows := make([][]any, 0, len(repos))
	for i := range repos {
		r := &repos[i]
		rows = append(rows, []any{
			r.Rank, r.Owner, r.Name, r.URL, r.Description, r.Language,
			r.Stars, r.Forks, r.StarsGained,
			strings.Join(r.Topics, ", "),
			r.Summary,
			strings.Join(r.KeyFeatures, "\n"),
			strings.Join(r.UseCases, "\n"),
		})
	}
	return writeWorkbook(w, RepositoriesSheet, repositoryColumns, rows)
}

func metadataXLSX(w io.Writer, meta domain.PageMetadata) error {
	fields := metadataFields(meta)
	rows := make([][]any, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []any{f.name, f.value})
	}
	return writeWorkbook(w, MetadataSheet, []string{"Field", "Value"}, rows)
}

// writeWorkbook writes a single-sheet workbook with a bold header row.
func writeWorkbook(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := setRow(f, sheet, 1, headerRow); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

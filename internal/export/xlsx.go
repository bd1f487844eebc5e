package export

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/hiretools/catalog-cli/internal/model"
)

var xlsxHeader = []string{
	"course_id", "title", "product_url", "remote_testing", "adaptive_irt", "test_type",
	"description", "job_levels", "languages", "assessment_length", "completion_time_minutes",
	"full_test_type",
}

// WriteXLSX writes the enriched catalog to a single-sheet workbook at path.
func WriteXLSX(path string, products []model.EnrichedProduct) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Catalog")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range xlsxHeader {
		header.AddCell().SetString(col)
	}

	for _, p := range products {
		row := sheet.AddRow()
		for _, v := range []string{
			p.CourseID, p.Title, p.ProductURL, p.RemoteTesting, p.AdaptiveIRT, p.TestType,
			p.Description, p.JobLevels, p.Languages, p.AssessmentLength, p.CompletionTimeMinutes,
			p.FullTestType,
		} {
			row.AddCell().SetString(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// XLSX writes products to a timestamped XLSX file and returns the written path.
func (e *Exporter) XLSX(products []model.EnrichedProduct) (string, error) {
	path, err := e.target("xlsx", time.Now())
	if err != nil {
		return "", err
	}
	if err := WriteXLSX(path, products); err != nil {
		return "", err
	}
	return path, nil
}

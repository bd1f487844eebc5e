package recommend

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/hiretools/catalog-cli/internal/model"
)

// requiredColumns must all be present in the dataset header.
var requiredColumns = []string{
	"course_id",
	"title",
	"product_url",
	"test_type",
	"job_levels",
	"languages",
	"description",
}

// LoadDataset reads the course CSV and normalizes its field values.
func LoadDataset(path string) ([]model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: open dataset %s", path)
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: read dataset header %s", path)
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	var courses []model.Course
	if err := csvutil.Unmarshal(data, &courses); err != nil {
		return nil, eris.Wrapf(err, "recommend: decode dataset %s", path)
	}
	if len(courses) == 0 {
		return nil, eris.Errorf("recommend: dataset %s has no rows", path)
	}

	for i := range courses {
		courses[i].Title = Clean(courses[i].Title)
		courses[i].TestType = Clean(courses[i].TestType)
		courses[i].JobLevels = Clean(courses[i].JobLevels)
		courses[i].Languages = Clean(courses[i].Languages)
		courses[i].Description = Clean(courses[i].Description)
	}

	return courses, nil
}

func checkColumns(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("recommend: dataset missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

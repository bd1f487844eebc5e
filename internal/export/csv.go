package export

import (
	"os"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteCSV marshals rows (a slice of csv-tagged structs) to path.
func WriteCSV(path string, rows any) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// CSV writes rows to a timestamped CSV file and returns the written path.
func (e *Exporter) CSV(rows any) (string, error) {
	path, err := e.target("csv", time.Now())
	if err != nil {
		return "", err
	}
	if err := WriteCSV(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

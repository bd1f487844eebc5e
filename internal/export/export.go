// Package export writes catalog snapshots to timestamped CSV and XLSX files.
package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// Exporter writes catalog files into a target directory using a common
// filename prefix.
type Exporter struct {
	dir    string
	prefix string
}

// New returns an Exporter writing into dir with the given filename prefix.
func New(dir, prefix string) *Exporter {
	return &Exporter{dir: dir, prefix: prefix}
}

// TimestampedName builds a filename like prefix_20060102_150405.ext.
func TimestampedName(prefix, ext string, now time.Time) string {
	return prefix + "_" + now.Format("20060102_150405") + "." + ext
}

func (e *Exporter) target(ext string, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create output dir %s", e.dir)
	}
	return filepath.Join(e.dir, TimestampedName(e.prefix, ext, now)), nil
}

package fs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/domain"
)

// WritePlanFile writes the plan as a concat list at path. The list is written
// to a temp file and renamed into place so a failed write never leaves a
// partial list behind.
func WritePlanFile(path string, plan domain.Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create plan dir")
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "create plan file")
	}

	if err := plan.WriteConcatList(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "write plan file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close plan file")
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "rename plan file")
	}
	return nil
}

// PlanFileWriter implements ports.PlanWriter with WritePlanFile.
type PlanFileWriter struct{}

// WritePlan implements ports.PlanWriter.
func (PlanFileWriter) WritePlan(path string, plan domain.Plan) error {
	return WritePlanFile(path, plan)
}

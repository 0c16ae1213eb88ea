package logging

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

// rotate deletes the oldest nvr log files in dir so that at most maxFiles
// remain once the next file is created. Names begin with a timestamp, so
// lexical order is age order.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.log"))
	if err != nil {
		return err
	}
	excess := len(matches) - (maxFiles - 1)
	if excess <= 0 {
		return nil
	}
	sort.Strings(matches)

	var errs []error
	for _, path := range matches[:excess] {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package testdata

import (
	"fmt"

	"golang.org/x/tools/txtar"
)

// Archive wraps a parsed txtar bundle and looks files up by name, the way
// a scenario's multi-file golden fixture (source + expected translate/
// compile output) is packed on disk.
type Archive struct {
	arch *txtar.Archive
}

// ParseArchive parses a txtar-formatted byte slice.
func ParseArchive(data []byte) *Archive {
	return &Archive{arch: txtar.Parse(data)}
}

// File returns the contents of the named file within the archive.
func (a *Archive) File(name string) ([]byte, error) {
	for _, f := range a.arch.Files {
		if f.Name == name {
			return f.Data, nil
		}
	}
	return nil, fmt.Errorf("testdata: archive has no file %q", name)
}

// Format re-serializes the archive in txtar form.
func (a *Archive) Format() []byte {
	return txtar.Format(a.arch)
}

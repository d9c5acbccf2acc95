package spec

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Catalog is an ordered set of mock declarations loaded from a file. It is
// read-only once loaded; capture appends go to the backing file, never here.
type Catalog struct {
	Mocks []Mock

	// Dir is the directory the catalog file was loaded from. File-referencing
	// bodies resolve relative to it, not to the working directory.
	Dir string
}

// Load reads a catalog file, defaults missing statuses to 200 and classifies
// every body string. A file that cannot be read or decoded is an error; the
// caller decides how fatal that is.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	var mocks []Mock
	if err := yaml.NewDecoder(f).Decode(&mocks); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	for i := range mocks {
		if mocks[i].Status == 0 {
			mocks[i].Status = http.StatusOK
		}
		mocks[i].BodySpec = ParseBodySpec(mocks[i].Body)
	}

	return &Catalog{Mocks: mocks, Dir: filepath.Dir(path)}, nil
}

// Find returns the first declared mock matching the request. Methods compare
// case-insensitively; paths (including any query string, exactly as written)
// must match byte for byte. A nil catalog never matches.
func (c *Catalog) Find(method, path string) (*Mock, bool) {
	if c == nil {
		return nil, false
	}

	for i := range c.Mocks {
		m := &c.Mocks[i]
		if strings.EqualFold(m.Method, method) && m.Path == path {
			return m, true
		}
	}

	return nil, false
}

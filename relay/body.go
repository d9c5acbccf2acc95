package relay

import (
	"io/ioutil"
	"path/filepath"

	"github.com/zerbitx/gnockthru/spec"
)

// resolveBody turns a classified body spec into the bytes to serve. File
// references resolve against the catalog's directory; a file that cannot be
// read degrades to the declared string itself, with a warning. The caller
// never sees the read error.
func (r *relay) resolveBody(body spec.BodySpec) []byte {
	if body.Kind == spec.FileRef {
		path := body.Value
		if !filepath.IsAbs(path) && r.catalog != nil {
			path = filepath.Join(r.catalog.Dir, path)
		}

		contents, err := ioutil.ReadFile(path)
		if err == nil {
			return contents
		}

		r.logger.WithError(err).WithField("body", body.Value).Warn("failed to read body file, serving the literal string")
	}

	return []byte(body.Value)
}

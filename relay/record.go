package relay

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zerbitx/gnockthru/spec"
	"gopkg.in/yaml.v2"
)

// GeneratedCatalogName is the catalog file captures are appended to, inside
// the save directory alongside the body files.
const GeneratedCatalogName = "gnocked.yaml"

const generatedHeader = "# Generated by gnockthru from captured traffic.\n# Each entry replays one observed exchange.\n\n"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// recorder persists observed exchanges as replayable catalog entries. The
// generated catalog file is the one piece of shared mutable state in the
// process; appends to it hold mu so concurrently completing requests never
// interleave entries. Body files need no such guard: names embed the path
// and an epoch-seconds timestamp, so only two captures of the same path
// within the same second collide, and the later write wins.
type recorder struct {
	dir    string
	logger logrus.FieldLogger
	now    func() time.Time

	mu sync.Mutex
}

func newRecorder(dir string, logger logrus.FieldLogger) *recorder {
	return &recorder{dir: dir, logger: logger, now: time.Now}
}

// record writes the response body to its own file and appends one catalog
// entry for it. Every failure is logged and swallowed; the exchange being
// recorded has already been answered and capture is advisory.
func (r *recorder) record(method, uri string, status int, contentType string, body []byte) {
	logger := r.logger.WithFields(logrus.Fields{"method": method, "uri": uri})

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		logger.WithError(err).Warn("failed to create save directory")
		return
	}

	name := captureFileName(uri, r.now().Unix(), contentType)
	if err := ioutil.WriteFile(filepath.Join(r.dir, name), body, 0644); err != nil {
		logger.WithError(err).Warn("failed to save body file")
		return
	}

	entry, err := yaml.Marshal([]spec.Mock{{
		Method: method,
		Path:   uri,
		Status: status,
		Body:   name,
	}})
	if err != nil {
		logger.WithError(err).Warn("failed to encode catalog entry")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(r.dir, GeneratedCatalogName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		logger.WithError(err).Warn("failed to open generated catalog")
		return
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.Size() == 0 {
		if _, err := f.WriteString(generatedHeader); err != nil {
			logger.WithError(err).Warn("failed to write generated catalog header")
			return
		}
	}

	if _, err := f.Write(entry); err != nil {
		logger.WithError(err).Warn("failed to append catalog entry")
		return
	}

	logger.WithField("file", name).Debug("captured")
}

// captureFileName derives a filesystem-safe name from the request path and
// query, suffixed with the capture timestamp.
func captureFileName(uri string, epoch int64, contentType string) string {
	base := unsafeFileChars.ReplaceAllString(strings.TrimPrefix(uri, "/"), "_")

	return fmt.Sprintf("%s_%d%s", base, epoch, extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "html"):
		return ".html"
	case strings.Contains(contentType, "text/plain"):
		return ".txt"
	default:
		return ".json"
	}
}

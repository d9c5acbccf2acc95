package spec

import "path/filepath"

type (
	// BodyKind discriminates how a mock's declared body string is produced.
	BodyKind int

	// BodySpec is a mock body, classified once at load time as either the
	// literal declared text or a reference to a file holding the bytes.
	BodySpec struct {
		Kind  BodyKind
		Value string
	}

	// Mock is a single declared (method, path) -> (status, headers, body)
	// mapping.
	Mock struct {
		Method  string            `json:"method" yaml:"method"`
		Path    string            `json:"path" yaml:"path"`
		Status  int               `json:"status" yaml:"status"`
		Body    string            `json:"body" yaml:"body"`
		Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

		BodySpec BodySpec `json:"-" yaml:"-"`
	}
)

const (
	// Literal serves the declared body string verbatim.
	Literal BodyKind = iota
	// FileRef serves the contents of the file the body string names.
	FileRef
)

// ParseBodySpec classifies a declared body string. Strings whose suffix is
// one of .json, .txt or .html name a file; anything else is literal text.
func ParseBodySpec(body string) BodySpec {
	switch filepath.Ext(body) {
	case ".json", ".txt", ".html":
		return BodySpec{Kind: FileRef, Value: body}
	}

	return BodySpec{Kind: Literal, Value: body}
}

// Package loader decodes receipt, settings and account documents from YAML,
// JSON or CUE files.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jobsync/internal/record"
	"github.com/roach88/jobsync/internal/sanitize"
	"github.com/roach88/jobsync/internal/store"
)

// Format identifies a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // File read error
	ErrCodeFormat      = "E003" // Unsupported file extension
	ErrCodeParseFailed = "E004" // YAML/JSON decode failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeInvalid     = "E007" // Document content invalid
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Document is the unit of import: receipts, an optional settings record and
// the chart of accounts.
type Document struct {
	Receipts []record.Receipt   `json:"receipts,omitempty" yaml:"receipts,omitempty"`
	Settings *sanitize.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Accounts []store.Account    `json:"accounts,omitempty" yaml:"accounts,omitempty"`
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported file type %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path))}
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	return Load(data, format, path)
}

// Load decodes data in the given format. filename is used in CUE positions.
func Load(data []byte, format Format, filename string) (*Document, error) {
	var (
		doc Document
		err error
	)
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatJSON:
		err = decodeJSON(data, &doc)
	case FormatCUE:
		err = decodeCUE(data, filename, &doc)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeYAML(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decoding YAML: %v", err)}
	}
	return nil
}

func decodeJSON(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decoding JSON: %v", err)}
	}
	return nil
}

// decodeCUE evaluates the file, requires it to be concrete, then exports it
// through JSON so the same field tags apply.
func decodeCUE(data []byte, filename string, doc *Document) error {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return cueLoadError(err, "building CUE value")
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return cueLoadError(err, "CUE value is not concrete")
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return cueLoadError(err, "exporting CUE value")
	}
	if err := decodeJSON(exported, doc); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Message = strings.Replace(le.Message, "decoding JSON", "decoding exported CUE", 1)
		}
		return err
	}
	return nil
}

func cueLoadError(err error, context string) *LoadError {
	le := &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Validate checks identifiers that the store needs: every receipt and
// account has a unique, non-empty id. Financial fields are checked later by
// canonicalization, so drafts can still be imported.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Receipts))
	for i, r := range d.Receipts {
		if strings.TrimSpace(r.ID) == "" {
			return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("receipts[%d]: id is required", i)}
		}
		if seen[r.ID] {
			return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("receipts[%d]: duplicate id %q", i, r.ID)}
		}
		seen[r.ID] = true
	}

	seen = make(map[string]bool, len(d.Accounts))
	for i, a := range d.Accounts {
		if strings.TrimSpace(a.ID) == "" {
			return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("accounts[%d]: id is required", i)}
		}
		if seen[a.ID] {
			return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("accounts[%d]: duplicate id %q", i, a.ID)}
		}
		seen[a.ID] = true
	}
	return nil
}

// AccountSet returns the document's accounts as a valid-id set.
func (d *Document) AccountSet() sanitize.AccountSet {
	ids := make([]string, len(d.Accounts))
	for i, a := range d.Accounts {
		ids[i] = a.ID
	}
	return sanitize.NewAccountSet(ids...)
}

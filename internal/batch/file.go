// Package batch translates many named statements at once.
//
// A batch file lists statements with an optional expected rendering:
//
//	queries:
//	  - name: adults
//	    sql: SELECT * FROM users WHERE age >= 18
//	    expect: 'db.users.find({"age": {"$gte": 18}})'
//
// Files are YAML (.yaml, .yml) or CUE (.cue) with the same shape.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// File is a parsed batch file.
type File struct {
	Queries []Entry `yaml:"queries" json:"queries"`
}

// Entry is one named statement.
type Entry struct {
	// Name identifies the entry in reports. Unique within a file.
	Name string `yaml:"name" json:"name"`

	// SQL is the statement to translate.
	SQL string `yaml:"sql" json:"sql"`

	// Expect, when set, is compared with the rendered shell string.
	Expect string `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// ErrUnsupportedFormat is returned for files that are neither YAML nor CUE.
var ErrUnsupportedFormat = errors.New("unsupported batch file format")

// Load reads a batch file, choosing the decoder by extension.
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Decode(filename, data)
}

// Decode parses data as a batch file. filename selects the format and is
// used in error positions.
func Decode(filename string, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		f, err = decodeYAML(data)
	case ".cue":
		f, err = decodeCUE(filename, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if err := validate(f); err != nil {
		return nil, fmt.Errorf("invalid batch file %s: %w", filename, err)
	}
	return f, nil
}

func decodeYAML(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

func decodeCUE(filename string, data []byte) (*File, error) {
	value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	queries := value.LookupPath(cue.ParsePath("queries"))
	if !queries.Exists() {
		return nil, fmt.Errorf("failed to parse CUE: missing queries field")
	}

	var f File
	if err := queries.Decode(&f.Queries); err != nil {
		return nil, fmt.Errorf("failed to decode CUE queries: %w", err)
	}
	return &f, nil
}

func validate(f *File) error {
	if len(f.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	seen := make(map[string]int, len(f.Queries))
	for i, e := range f.Queries {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if strings.TrimSpace(e.SQL) == "" {
			return fmt.Errorf("queries[%d] (%s): sql is required", i, e.Name)
		}
		if prev, ok := seen[e.Name]; ok {
			return fmt.Errorf("queries[%d]: duplicate name %q (first at queries[%d])", i, e.Name, prev)
		}
		seen[e.Name] = i
	}
	return nil
}

// Filter returns the entries whose name matches the glob pattern
// (path.Match syntax). An empty pattern matches everything.
func Filter(entries []Entry, pattern string) ([]Entry, error) {
	if pattern == "" {
		return entries, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}

	var out []Entry
	for _, e := range entries {
		if ok, _ := path.Match(pattern, e.Name); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

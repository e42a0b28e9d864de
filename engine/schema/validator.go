package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
	"github.com/spf13/afero"

	"github.com/climate-guardian/lessonkit/pkg/logger"
)

// -----------------------------------------------------------------------------
// Document validation
// -----------------------------------------------------------------------------

// Violation is one schema failure with the instance location it occurred at.
type Violation struct {
	Location string
	Message  string
}

type Result struct {
	Valid      bool
	Violations []Violation
}

// Validator validates lesson documents against a compiled canonical schema.
// Compile once, validate many; validation never mutates its input.
type Validator struct {
	compiled *jsonschema.Schema
}

// NewValidator parses and compiles a canonical schema artifact. The raw
// bytes go through the Schema map form first, so a malformed artifact
// surfaces as a parse failure instead of a compiler error.
func NewValidator(schemaJSON []byte) (*Validator, error) {
	var s Schema
	if err := json.Unmarshal(schemaJSON, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("empty schema document")
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}
	return &Validator{compiled: compiled}, nil
}

// ValidateDocument checks raw lesson JSON against the canonical schema. A
// non-JSON input returns an error (a parse failure, distinct from any schema
// violation); schema failures come back inside the Result.
func (v *Validator) ValidateDocument(data []byte) (*Result, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to parse lesson document: %w", err)
	}
	result := v.compiled.Validate(value)
	if result.Valid {
		return &Result{Valid: true}, nil
	}
	return &Result{Valid: false, Violations: collectViolations(result.ToList())}, nil
}

// collectViolations flattens the hierarchical evaluation output into
// (location, message) pairs, sorted for stable reporting. Each level of the
// evaluation tree carries an instance location relative to its parent, so
// absolute JSON-pointer locations are accumulated on the way down.
func collectViolations(list *jsonschema.List) []Violation {
	var out []Violation
	var walk func(l *jsonschema.List, base string)
	walk = func(l *jsonschema.List, base string) {
		if l == nil || l.Valid {
			return
		}
		loc := joinLocation(base, l.InstanceLocation)
		if len(l.Errors) > 0 {
			keys := make([]string, 0, len(l.Errors))
			for k := range l.Errors {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			display := loc
			if display == "" {
				display = "/"
			}
			for _, k := range keys {
				out = append(out, Violation{Location: display, Message: l.Errors[k]})
			}
		}
		// Sub-results of a failing "not" are evaluations that were expected
		// to fail; their errors read inverted and must not surface.
		if isNotBranch(l.EvaluationPath) {
			return
		}
		for i := range l.Details {
			walk(&l.Details[i], loc)
		}
	}
	walk(list, "")
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		return out[i].Message < out[j].Message
	})
	return out
}

func joinLocation(base, rel string) string {
	if rel == "" || rel == "/" {
		return base
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return base + rel
}

func isNotBranch(evaluationPath string) bool {
	return evaluationPath == "/not" || strings.HasSuffix(evaluationPath, "/not")
}

// -----------------------------------------------------------------------------
// Directory gate
// -----------------------------------------------------------------------------

type FileReport struct {
	Name string
	// Err records a parse/IO failure; Result is nil in that case.
	Err    error
	Result *Result
}

func (f *FileReport) Passed() bool {
	return f.Err == nil && f.Result != nil && f.Result.Valid
}

type DirReport struct {
	Passed int
	Failed int
	Files  []FileReport
}

func (r *DirReport) AllPassed() bool {
	return r.Failed == 0
}

// ValidateDir runs the read-only pre-flight gate over every *.json lesson
// file in dir.
func (v *Validator) ValidateDir(ctx context.Context, fsys afero.Fs, dir string) (*DirReport, error) {
	log := logger.FromContext(ctx)
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson directory %s: %w", dir, err)
	}
	report := &DirReport{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		file := FileReport{Name: entry.Name()}
		data, err := afero.ReadFile(fsys, filepath.Join(dir, entry.Name()))
		if err != nil {
			file.Err = fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		} else {
			file.Result, file.Err = v.ValidateDocument(data)
		}
		if file.Passed() {
			report.Passed++
		} else {
			report.Failed++
			log.Debug("lesson failed validation", "file", entry.Name())
		}
		report.Files = append(report.Files, file)
	}
	return report, nil
}

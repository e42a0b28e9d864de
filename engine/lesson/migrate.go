package lesson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/pretty"

	"github.com/climate-guardian/lessonkit/pkg/logger"
)

// ErrBackupFailed marks files whose pre-write backup could not be created.
// The original file is left untouched when this happens.
var ErrBackupFailed = errors.New("backup failed")

// MigrateLesson normalizes every slide of a document in order and fills a
// missing document title. The input document is not mutated.
func MigrateLesson(doc *Document) *Document {
	out := &Document{Title: doc.Title, Slides: make([]Slide, len(doc.Slides))}
	if out.Title == "" {
		out.Title = FallbackLessonTitle
	}
	for i, slide := range doc.Slides {
		out.Slides[i] = NormalizeSlide(slide)
	}
	return out
}

// -----------------------------------------------------------------------------
// Batch migration
// -----------------------------------------------------------------------------

type FileStatus string

const (
	StatusChanged   FileStatus = "changed"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
)

type FileResult struct {
	Name   string
	Status FileStatus
	// Backup holds the backup filename when a rewrite actually happened.
	Backup string
	Err    error
}

type Summary struct {
	Processed int
	Changed   int
	Failed    int
	Files     []FileResult
}

// Migrator rewrites lesson files in place with backup-before-write
// semantics. All filesystem access goes through afero so the batch logic is
// testable against a memory filesystem.
type Migrator struct {
	fs  afero.Fs
	now func() time.Time
}

func NewMigrator(fs afero.Fs) *Migrator {
	return &Migrator{fs: fs, now: time.Now}
}

// MigrateAll processes every *.json file in dir. With write=false it is a
// pure dry run reporting intended changes; with write=true each changed file
// is backed up beside the original and then overwritten with the
// pretty-printed migrated document. A per-file failure never aborts the
// batch. Cancelling ctx stops scheduling further files; the file currently
// being rewritten always completes.
func (m *Migrator) MigrateAll(ctx context.Context, dir string, write bool) (*Summary, error) {
	log := logger.FromContext(ctx)
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson directory %s: %w", dir, err)
	}
	summary := &Summary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		result := m.migrateFile(filepath.Join(dir, entry.Name()), write)
		result.Name = entry.Name()
		summary.Processed++
		switch result.Status {
		case StatusChanged:
			summary.Changed++
		case StatusFailed:
			summary.Failed++
			log.Warn("lesson migration failed", "file", entry.Name(), "error", result.Err)
		}
		summary.Files = append(summary.Files, result)
	}
	return summary, nil
}

func (m *Migrator) migrateFile(path string, write bool) FileResult {
	raw, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return FileResult{Status: StatusFailed, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	doc, err := DecodeDocument(raw)
	if err != nil {
		return FileResult{Status: StatusFailed, Err: err}
	}
	migrated := MigrateLesson(doc)

	// Change detection compares both documents under the same serializer,
	// so on-disk key order and indentation never count as a change.
	before, err := doc.Encode()
	if err != nil {
		return FileResult{Status: StatusFailed, Err: err}
	}
	after, err := migrated.Encode()
	if err != nil {
		return FileResult{Status: StatusFailed, Err: err}
	}
	if bytes.Equal(before, after) {
		return FileResult{Status: StatusUnchanged}
	}
	if !write {
		return FileResult{Status: StatusChanged}
	}

	backup := m.backupPath(path)
	if err := afero.WriteFile(m.fs, backup, raw, 0o644); err != nil {
		return FileResult{
			Status: StatusFailed,
			Err:    fmt.Errorf("%w for %s: %v", ErrBackupFailed, path, err),
		}
	}
	if err := afero.WriteFile(m.fs, path, pretty.Pretty(after), 0o644); err != nil {
		return FileResult{Status: StatusFailed, Err: fmt.Errorf("failed to rewrite %s: %w", path, err)}
	}
	return FileResult{Status: StatusChanged, Backup: filepath.Base(backup)}
}

// backupPath picks `<name>.bak-<unix-nanos>`, appending a counter when the
// same file is backed up twice within one clock tick.
func (m *Migrator) backupPath(path string) string {
	base := fmt.Sprintf("%s.bak-%d", path, m.now().UnixNano())
	candidate := base
	for n := 1; ; n++ {
		exists, err := afero.Exists(m.fs, candidate)
		if err != nil || !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climate-guardian/lessonkit/engine/lesson"
	"github.com/climate-guardian/lessonkit/schemas"
)

func newLessonValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(schemas.Lesson)
	require.NoError(t, err)
	return v
}

func TestNewValidator(t *testing.T) {
	t.Run("Should reject a schema artifact that is not a JSON object", func(t *testing.T) {
		_, err := NewValidator([]byte(`["not", "a", "schema"]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse schema document")
	})

	t.Run("Should reject an empty schema artifact", func(t *testing.T) {
		_, err := NewValidator([]byte(`null`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty schema document")
	})
}

func TestValidateDocument(t *testing.T) {
	v := newLessonValidator(t)

	t.Run("Should accept a document with an empty slide sequence", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(`{"title": "第1课", "slides": []}`))
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Violations)
	})

	t.Run("Should reject a document missing slides with a root location", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(`{"title": "第1课"}`))
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.NotEmpty(t, result.Violations)
		assert.Equal(t, "/", result.Violations[0].Location)
	})

	t.Run("Should accept a fully canonical lesson", func(t *testing.T) {
		doc := `{
			"title": "第2课：全球变暖",
			"slides": [
				{"type": "cover", "title": "第2课", "subtitle": "全球变暖", "duration": 120},
				{"type": "objective", "title": "学习目标", "bullets": ["认识温室效应"], "duration": 120},
				{"type": "video", "title": "课程引入", "video": "/assets/videos/intro.mp4", "questions": [], "duration": 180},
				{"type": "chart", "title": "数据可视化", "chartType": "line", "dataSrc": "/assets/data/temp.csv", "duration": 120}
			]
		}`
		result, err := v.ValidateDocument([]byte(doc))
		require.NoError(t, err)
		assert.True(t, result.Valid, "violations: %v", result.Violations)
	})

	t.Run("Should reject legacy slide tags", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(
			`{"title": "x", "slides": [{"type": "text", "content": "学习目标"}]}`))
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("Should reject alias fields on canonical slides", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(
			`{"title": "x", "slides": [{"type": "chart", "chartType": "line", "dataSrc": "/a.csv", "src": "a.csv"}]}`))
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("Should reject an unrooted dataSrc", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(
			`{"title": "x", "slides": [{"type": "chart", "chartType": "line", "dataSrc": "assets/a.csv"}]}`))
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("Should report non-JSON input as a parse error, not a violation", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(`{broken`))
		require.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("Should point at the offending slide in the violation location", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(
			`{"title": "x", "slides": [{"type": "cover"}, {"type": "concept"}]}`))
		require.NoError(t, err)
		require.False(t, result.Valid)
		found := false
		for _, violation := range result.Violations {
			if violation.Location == "/slides/1" {
				found = true
			}
		}
		assert.True(t, found, "expected a violation at /slides/1, got %v", result.Violations)
	})

	t.Run("Should keep alias rejections free of inverted messages", func(t *testing.T) {
		result, err := v.ValidateDocument([]byte(
			`{"title": "x", "slides": [{"type": "chart", "chartType": "line", "dataSrc": "/a.csv", "src": "a.csv"}]}`))
		require.NoError(t, err)
		require.False(t, result.Valid)
		atSlide := false
		for _, violation := range result.Violations {
			// "src" trips the legacy-field guard; the other alias names are
			// not in the instance and must not be reported as missing.
			assert.NotContains(t, violation.Message, "videoSrc")
			assert.NotContains(t, violation.Message, "placeholder")
			assert.NotContains(t, violation.Message, "coverImage")
			if strings.HasPrefix(violation.Location, "/slides/0") {
				atSlide = true
			}
		}
		assert.True(t, atSlide, "expected a violation under /slides/0, got %v", result.Violations)
	})
}

func TestValidateDir(t *testing.T) {
	t.Run("Should aggregate per-file results", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("slides", 0o755))
		require.NoError(t, afero.WriteFile(fs, "slides/lesson-01.json",
			[]byte(`{"title": "第1课", "slides": []}`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "slides/lesson-02.json",
			[]byte(`{broken`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "slides/notes.txt",
			[]byte(`ignored`), 0o644))

		report, err := newLessonValidator(t).ValidateDir(context.Background(), fs, "slides")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Passed)
		assert.Equal(t, 1, report.Failed)
		assert.False(t, report.AllPassed())
		require.Len(t, report.Files, 2)
		assert.True(t, report.Files[0].Passed())
		assert.Error(t, report.Files[1].Err)
	})
}

func TestMigrateThenValidate(t *testing.T) {
	t.Run("Should yield zero violations after migrating a legacy directory", func(t *testing.T) {
		legacy := `{
			"title": "第3课：碳足迹",
			"slides": [
				{"type": "text", "content": "思考题", "question": ["我们能做什么？"]},
				{"type": "chart", "content": "数据可视化", "src": "assets/data/lesson-03-co2.csv"}
			]
		}`
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("slides", 0o755))
		require.NoError(t, afero.WriteFile(fs, "slides/lesson-03.json", []byte(legacy), 0o644))

		summary, err := lesson.NewMigrator(fs).MigrateAll(context.Background(), "slides", true)
		require.NoError(t, err)
		require.Equal(t, 1, summary.Changed)

		report, err := newLessonValidator(t).ValidateDir(context.Background(), fs, "slides")
		require.NoError(t, err)
		assert.Equal(t, 0, report.Failed, "post-migration files must be canonical")
	})
}

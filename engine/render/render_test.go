package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climate-guardian/lessonkit/engine/lesson"
)

func TestSlides(t *testing.T) {
	t.Run("Should render an un-migrated legacy document end to end", func(t *testing.T) {
		doc := `{
			"title": "第2课：全球变暖",
			"slides": [
				{"type": "title", "content": "第2课：全球变暖"},
				{"type": "text", "content": "学习目标", "data": ["认识温室效应", "了解碳循环"]},
				{"type": "text", "content": "思考题", "question": ["冰川为什么融化？"]},
				{"type": "chart", "content": "数据可视化", "data": "assets/data/lesson-02-temp.csv"},
				{"type": "video", "content": "课程引入", "src": "assets/videos/lesson-02-intro.mp4"}
			]
		}`
		markup := Slides([]byte(doc))
		assert.Equal(t, 5, strings.Count(markup, "<section"))
		assert.Contains(t, markup, "<h1>第2课：全球变暖</h1>")
		assert.Contains(t, markup, "<li>认识温室效应</li>")
		assert.Contains(t, markup, "<li>冰川为什么融化？</li>")
		assert.Contains(t, markup, `data-src="/assets/data/lesson-02-temp.csv"`)
		assert.Contains(t, markup, `src="assets/videos/lesson-02-intro.mp4"`)
		assert.NotContains(t, markup, "undefined")
	})

	t.Run("Should preserve slide order", func(t *testing.T) {
		doc := `{"slides": [
			{"type": "cover", "title": "甲"},
			{"type": "concept", "title": "乙", "content": "丙"}
		]}`
		markup := Slides([]byte(doc))
		assert.Less(t, strings.Index(markup, "甲"), strings.Index(markup, "乙"))
	})

	t.Run("Should render nothing for a document without slides", func(t *testing.T) {
		assert.Equal(t, "", Slides([]byte(`{"title": "空"}`)))
	})
}

func TestSlide_Fallbacks(t *testing.T) {
	t.Run("Should render a non-empty fragment for an unknown type", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "quiz", "title": "随堂测验"}, 0)
		assert.NotEmpty(t, markup)
		assert.Contains(t, markup, "随堂测验")
		assert.NotContains(t, markup, "undefined")
	})

	t.Run("Should fall back to content when an unknown slide has no title", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "quiz", "content": "补充内容"}, 0)
		assert.Contains(t, markup, "补充内容")
	})

	t.Run("Should omit absent optional fields instead of rendering placeholders", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "cover", "title": "封面"}, 0)
		assert.NotContains(t, markup, "subtitle")
		assert.NotContains(t, markup, "undefined")

		markup = Slide(lesson.Slide{"type": "video", "title": "无视频"}, 0)
		assert.NotContains(t, markup, "<video")
		assert.NotContains(t, markup, "<ol")
	})

	t.Run("Should never panic on an empty record", func(t *testing.T) {
		assert.NotPanics(t, func() {
			markup := Slide(lesson.Slide{}, 0)
			assert.NotEmpty(t, markup)
		})
	})

	t.Run("Should escape markup in free text", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "concept", "title": "<b>x</b>", "content": "a < b"}, 0)
		assert.NotContains(t, markup, "<b>x</b>")
		assert.Contains(t, markup, "&lt;b&gt;x&lt;/b&gt;")
	})
}

func TestSlide_Interaction(t *testing.T) {
	t.Run("Should render the task body", func(t *testing.T) {
		markup := Slide(lesson.Slide{
			"type":  "interaction",
			"title": "动手做",
			"task":  "记录家里一周的用电量",
		}, 0)
		assert.Contains(t, markup, `class="slide slide-interaction"`)
		assert.Contains(t, markup, "<h2>动手做</h2>")
		assert.Contains(t, markup, `<div class="interaction-task"><p>记录家里一周的用电量</p></div>`)
	})

	t.Run("Should omit the task container when the task is empty", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "interaction", "title": "动手做"}, 0)
		assert.NotContains(t, markup, "interaction-task")
	})
}

func TestSlide_Summary(t *testing.T) {
	t.Run("Should render summary bullets as a list", func(t *testing.T) {
		markup := Slide(lesson.Slide{
			"type":    "summary",
			"title":   "本课小结",
			"bullets": []any{"温室效应", "碳足迹"},
		}, 0)
		assert.Contains(t, markup, `class="slide slide-summary"`)
		assert.Contains(t, markup, "<h2>本课小结</h2>")
		assert.Contains(t, markup, `<ul class="summary-list">`)
		assert.Contains(t, markup, "<li>温室效应</li><li>碳足迹</li>")
	})

	t.Run("Should fall back to the default summary heading", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "summary", "bullets": []any{"结论"}}, 0)
		assert.Contains(t, markup, "<h2>课程小结</h2>")
	})
}

func TestSlide_ChartAnchors(t *testing.T) {
	t.Run("Should collapse whitespace runs in the anchor id", func(t *testing.T) {
		markup := Slide(lesson.Slide{
			"type":    "chart",
			"title":   "Global   Temperature \t Rise",
			"dataSrc": "/assets/data/temp.csv",
		}, 0)
		assert.Contains(t, markup, `id="chart-global-temperature-rise"`)
	})

	t.Run("Should fall back to the slide index for unsluggable titles", func(t *testing.T) {
		markup := Slide(lesson.Slide{
			"type":    "chart",
			"title":   "？？？",
			"dataSrc": "/assets/data/temp.csv",
		}, 3)
		assert.Contains(t, markup, `id="chart-3"`)
	})

	t.Run("Should derive some anchor for transliterable titles", func(t *testing.T) {
		markup := Slide(lesson.Slide{
			"type":    "chart",
			"title":   "数据可视化",
			"dataSrc": "/assets/data/temp.csv",
		}, 0)
		assert.Contains(t, markup, `id="chart-`)
	})

	t.Run("Should default the chart type attribute", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "chart", "dataSrc": "/a.csv"}, 0)
		assert.Contains(t, markup, `data-chart-type="line"`)
	})
}

func TestSlide_Duration(t *testing.T) {
	t.Run("Should stamp the default duration on every fragment", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "cover", "title": "封面"}, 0)
		assert.Contains(t, markup, `data-duration="120"`)
	})

	t.Run("Should keep an explicit duration", func(t *testing.T) {
		markup := Slide(lesson.Slide{"type": "cover", "title": "封面", "duration": float64(90)}, 0)
		assert.Contains(t, markup, `data-duration="90"`)
	})
}

func TestSlide_AliasParity(t *testing.T) {
	t.Run("Should render aliased and canonical records identically", func(t *testing.T) {
		aliased := Slide(lesson.Slide{"type": "video", "videoSrc": "a.mp4", "title": "引入"}, 0)
		canonical := Slide(lesson.Slide{"type": "video", "video": "a.mp4", "title": "引入"}, 0)
		require.Equal(t, canonical, aliased)
	})
}

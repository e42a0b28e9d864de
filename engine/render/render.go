// Package render turns lesson documents into slideshow markup. It is
// deliberately forgiving: classroom authors ship incomplete drafts and
// un-migrated legacy files, and a lesson must still display.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gosimple/slug"
	"github.com/tidwall/gjson"

	"github.com/climate-guardian/lessonkit/engine/lesson"
)

// Slides renders a whole lesson document (raw JSON, pre- or post-migration)
// into one markup string, one <section> per slide in document order.
func Slides(data []byte) string {
	var b strings.Builder
	index := 0
	gjson.GetBytes(data, "slides").ForEach(func(_, raw gjson.Result) bool {
		b.WriteString(Slide(slideFromResult(raw), index))
		index++
		return true
	})
	return b.String()
}

// Slide renders one record. Legacy shapes are routed through the same
// normalization the migrator uses, so field aliasing behaves identically
// whether or not the file on disk has been migrated.
func Slide(s lesson.Slide, index int) string {
	n := lesson.NormalizeSlide(s)
	switch n.Type() {
	case lesson.TypeCover:
		return renderCover(n)
	case lesson.TypeObjective:
		return renderBullets(n, "objective", "学习目标")
	case lesson.TypeSummary:
		return renderBullets(n, "summary", "课程小结")
	case lesson.TypeVideo:
		return renderVideo(n)
	case lesson.TypeConcept:
		return renderConcept(n)
	case lesson.TypeChart:
		return renderChart(n, index)
	case lesson.TypeInteraction:
		return renderInteraction(n)
	case lesson.TypeDiscussion:
		return renderDiscussion(n)
	default:
		return renderFallback(n)
	}
}

func slideFromResult(r gjson.Result) lesson.Slide {
	s := lesson.Slide{}
	if r.IsObject() {
		for k, v := range r.Map() {
			s[k] = v.Value()
		}
	}
	return s
}

// -----------------------------------------------------------------------------
// Per-type fragments
// -----------------------------------------------------------------------------

func renderCover(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "cover")
	writeHeading(&b, "h1", s.String("title"))
	if sub := s.String("subtitle"); sub != "" {
		fmt.Fprintf(&b, `<p class="subtitle">%s</p>`, html.EscapeString(sub))
	}
	b.WriteString("</section>\n")
	return b.String()
}

func renderBullets(s lesson.Slide, kind, fallbackTitle string) string {
	var b strings.Builder
	openSection(&b, s, kind)
	title := s.String("title")
	if title == "" {
		title = fallbackTitle
	}
	writeHeading(&b, "h2", title)
	writeList(&b, "ul", kind+"-list", stringList(s["bullets"]))
	b.WriteString("</section>\n")
	return b.String()
}

func renderVideo(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "video")
	writeHeading(&b, "h2", s.String("title"))
	if src := s.String("video"); src != "" {
		if poster := s.String("placeholder"); poster != "" {
			fmt.Fprintf(&b, `<video class="lesson-video" controls src="%s" poster="%s"></video>`,
				html.EscapeString(src), html.EscapeString(poster))
		} else {
			fmt.Fprintf(&b, `<video class="lesson-video" controls src="%s"></video>`,
				html.EscapeString(src))
		}
	}
	writeList(&b, "ol", "video-questions", stringList(s["questions"]))
	b.WriteString("</section>\n")
	return b.String()
}

func renderConcept(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "concept")
	writeHeading(&b, "h2", s.String("title"))
	if content := s.String("content"); content != "" {
		fmt.Fprintf(&b, `<div class="concept-body"><p>%s</p></div>`, html.EscapeString(content))
	}
	b.WriteString("</section>\n")
	return b.String()
}

func renderChart(s lesson.Slide, index int) string {
	var b strings.Builder
	openSection(&b, s, "chart")
	title := s.String("title")
	writeHeading(&b, "h2", title)
	chartType := s.String("chartType")
	if chartType == "" {
		chartType = lesson.DefaultChartType
	}
	if src := s.String("dataSrc"); src != "" {
		fmt.Fprintf(&b, `<div id="%s" class="chart-container" data-chart-type="%s" data-src="%s"></div>`,
			chartAnchor(title, index), html.EscapeString(chartType), html.EscapeString(src))
	}
	b.WriteString("</section>\n")
	return b.String()
}

func renderInteraction(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "interaction")
	writeHeading(&b, "h2", s.String("title"))
	if task := s.String("task"); task != "" {
		fmt.Fprintf(&b, `<div class="interaction-task"><p>%s</p></div>`, html.EscapeString(task))
	}
	b.WriteString("</section>\n")
	return b.String()
}

func renderDiscussion(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "discussion")
	writeHeading(&b, "h2", s.String("title"))
	writeList(&b, "ol", "discussion-questions", stringList(s["questions"]))
	b.WriteString("</section>\n")
	return b.String()
}

// renderFallback handles unknown slide types: a minimal fragment carrying
// whatever heading the record has, never a broken one.
func renderFallback(s lesson.Slide) string {
	var b strings.Builder
	openSection(&b, s, "generic")
	text := s.String("title")
	if text == "" {
		text = s.String("content")
	}
	if text != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(text))
	}
	b.WriteString("</section>\n")
	return b.String()
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func openSection(b *strings.Builder, s lesson.Slide, kind string) {
	fmt.Fprintf(b, `<section class="slide slide-%s" data-duration="%s">`, kind, durationValue(s))
}

func durationValue(s lesson.Slide) string {
	switch v := s["duration"].(type) {
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%d", lesson.DefaultDuration)
	}
}

func writeHeading(b *strings.Builder, tag, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "<%s>%s</%s>", tag, html.EscapeString(text), tag)
}

func writeList(b *strings.Builder, tag, class string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<%s class="%s">`, tag, class)
	for _, item := range items {
		fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(item))
	}
	fmt.Fprintf(b, "</%s>", tag)
}

// chartAnchor derives a slug-safe container id from the slide title.
// Titles with no sluggable characters fall back to the slide index.
func chartAnchor(title string, index int) string {
	if s := slug.Make(title); s != "" {
		return "chart-" + s
	}
	return fmt.Sprintf("chart-%d", index)
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

package lesson

import (
	"strings"
)

// -----------------------------------------------------------------------------
// Alias chains
// -----------------------------------------------------------------------------

// Field aliases accumulated across schema generations, evaluated first match.
// Chain order is load-bearing: the canonical name always wins over its
// legacy spellings.
var (
	videoAliases       = []string{"video", "videoSrc", "src"}
	placeholderAliases = []string{"placeholder", "coverImage"}
	dataSrcAliases     = []string{"dataSrc", "src", "data"}
	bulletAliases      = []string{"bullets", "objectives", "points"}
	questionAliases    = []string{"questions", "question"}
	contentAliases     = []string{"content", "body", "description"}
)

// legacyKeys are fully consumed during normalization and must never appear
// on a canonical record.
var legacyKeys = []string{
	"objectives", "videoSrc", "coverImage", "question",
	"src", "data", "body", "description", "points",
}

func firstString(s Slide, keys ...string) string {
	for _, k := range keys {
		if v, ok := s[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func firstValue(s Slide, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := s[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toStringList coerces a scalar-or-sequence value into a string sequence.
// A bare string becomes a one-element list; anything unusable becomes empty.
func toStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		if val == "" {
			return []string{}
		}
		return []string{val}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// sequenceOnly keeps sequence values and discards everything else. Legacy
// objective slides stored their bullets under "data", which sometimes held a
// bare string caption instead of a list; those captions are not bullets.
func sequenceOnly(v any) []string {
	switch v.(type) {
	case []string, []any:
		return toStringList(v)
	default:
		return []string{}
	}
}

func joinSequence(v any, sep string) string {
	items := sequenceOnly(v)
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, sep)
}

// -----------------------------------------------------------------------------
// NormalizeSlide
// -----------------------------------------------------------------------------

// NormalizeSlide maps one slide record, legacy or canonical, to the canonical
// shape. It is pure (the input map is never mutated), total (unknown types
// pass through with defaults applied) and idempotent.
func NormalizeSlide(s Slide) Slide {
	switch s.Type() {
	case LegacyTitle:
		return finalize(normalizeLegacyTitle(s))
	case LegacyText:
		return finalize(normalizeLegacyText(s))
	}
	return finalize(normalizeCanonical(s))
}

func normalizeLegacyTitle(s Slide) Slide {
	out := s.Clone()
	out["type"] = string(TypeCover)
	if c := out.String("content"); c != "" {
		out["title"] = c
	}
	delete(out, "content")
	return out
}

func normalizeLegacyText(s Slide) Slide {
	content := s.String("content")
	out := s.Clone()
	switch {
	case strings.Contains(content, markerObjective):
		out["type"] = string(TypeObjective)
		out["title"] = content
		out["bullets"] = sequenceOnly(out["data"])
		delete(out, "content")
	case strings.Contains(content, markerDiscussion):
		out["type"] = string(TypeDiscussion)
		out["title"] = content
		qv, _ := firstValue(out, questionAliases...)
		out["questions"] = toStringList(qv)
		delete(out, "content")
	default:
		out["type"] = string(TypeConcept)
		title := content
		if title == "" {
			title = FallbackConceptTitle
		}
		out["title"] = title
		body := firstString(out, "body", "description")
		if body == "" {
			body = joinSequence(out["data"], "；")
		}
		if body == "" {
			body = content
		}
		out["content"] = body
	}
	return out
}

func normalizeCanonical(s Slide) Slide {
	t := s.Type()
	out := s.Clone()
	if !t.Canonical() {
		// Unrecognized tag: keep the record verbatim so the validator can
		// flag it and the renderer can fall back; only defaults apply.
		return out
	}
	out["type"] = string(t)
	switch t {
	case TypeVideo:
		if v := firstString(out, videoAliases...); v != "" {
			out["video"] = v
		}
		if p := firstString(out, placeholderAliases...); p != "" {
			out["placeholder"] = p
		}
		qv, _ := firstValue(out, questionAliases...)
		out["questions"] = toStringList(qv)
		foldContentTitle(out)
	case TypeChart:
		if out.String("chartType") == "" {
			out["chartType"] = DefaultChartType
		}
		out["dataSrc"] = NormalizeDataPath(firstString(out, dataSrcAliases...))
		foldContentTitle(out)
	case TypeObjective, TypeSummary:
		bv, ok := firstValue(out, bulletAliases...)
		if !ok {
			bv = out["data"]
		}
		out["bullets"] = toStringList(bv)
	case TypeDiscussion:
		qv, _ := firstValue(out, questionAliases...)
		out["questions"] = toStringList(qv)
	case TypeConcept:
		out["content"] = firstString(out, contentAliases...)
	}
	return out
}

// foldContentTitle moves a legacy display caption stored under "content"
// into the title slot. The first-generation generator emitted chart and
// video slides this way.
func foldContentTitle(s Slide) {
	if s.String("title") == "" {
		if c := s.String("content"); c != "" {
			s["title"] = c
		}
	}
	delete(s, "content")
}

func finalize(s Slide) Slide {
	for _, k := range legacyKeys {
		delete(s, k)
	}
	if v, ok := s["duration"]; !ok || v == nil {
		s["duration"] = DefaultDuration
	}
	return s
}

// -----------------------------------------------------------------------------
// Path normalization
// -----------------------------------------------------------------------------

// NormalizeDataPath roots a data-asset path at "/" and collapses duplicate
// slashes. The collapse is two sequential single-pass replacements, matching
// the long-standing behavior the published lesson corpus was normalized
// with; runs of four or more slashes are not guaranteed to fully collapse.
func NormalizeDataPath(p string) string {
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.ReplaceAll(p, "//", "/")
	p = strings.ReplaceAll(p, "//", "/")
	return p
}

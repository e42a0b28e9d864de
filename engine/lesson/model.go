package lesson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Slide types
// -----------------------------------------------------------------------------

type SlideType string

const (
	TypeCover       SlideType = "cover"
	TypeObjective   SlideType = "objective"
	TypeVideo       SlideType = "video"
	TypeConcept     SlideType = "concept"
	TypeChart       SlideType = "chart"
	TypeInteraction SlideType = "interaction"
	TypeDiscussion  SlideType = "discussion"
	TypeSummary     SlideType = "summary"
)

// Legacy tags produced by the first generation of lesson files. They are
// accepted on input only and never appear in canonical output.
const (
	LegacyTitle SlideType = "title"
	LegacyText  SlideType = "text"
)

const (
	// DefaultDuration is the per-slide duration (seconds) injected when a
	// record carries none.
	DefaultDuration = 120
	// DefaultChartType is assumed when a chart slide omits its chart kind.
	DefaultChartType = "line"
	// FallbackLessonTitle replaces a missing document title during migration.
	FallbackLessonTitle = "未命名课程"
	// FallbackConceptTitle labels concept slides whose legacy source had no
	// usable heading.
	FallbackConceptTitle = "知识点"
)

// Content markers that classify legacy "text" slides.
const (
	markerObjective  = "学习目标"
	markerDiscussion = "思考题"
)

var canonicalTypes = map[SlideType]bool{
	TypeCover:       true,
	TypeObjective:   true,
	TypeVideo:       true,
	TypeConcept:     true,
	TypeChart:       true,
	TypeInteraction: true,
	TypeDiscussion:  true,
	TypeSummary:     true,
}

// ParseSlideType lowercases the raw tag; lesson authors have shipped files
// with mixed-case tags.
func ParseSlideType(raw string) SlideType {
	return SlideType(strings.ToLower(strings.TrimSpace(raw)))
}

// Canonical reports whether t is part of the current schema.
func (t SlideType) Canonical() bool {
	return canonicalTypes[t]
}

// Legacy reports whether t is a pre-migration tag.
func (t SlideType) Legacy() bool {
	return t == LegacyTitle || t == LegacyText
}

// -----------------------------------------------------------------------------
// Slide
// -----------------------------------------------------------------------------

// Slide is one record of a lesson document. It stays map-backed so unknown
// fields and unknown types survive decode/encode round-trips untouched.
type Slide map[string]any

func (s Slide) Type() SlideType {
	return ParseSlideType(s.String("type"))
}

// String returns the value under key when it is a string, "" otherwise.
func (s Slide) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy. Slide payloads are one level deep (scalars
// and string lists), so a shallow copy is enough for copy-on-normalize.
func (s Slide) Clone() Slide {
	out := make(Slide, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------
// Document
// -----------------------------------------------------------------------------

// Document is one lesson: a title plus an ordered slide sequence.
type Document struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode lesson document: %w", err)
	}
	return &doc, nil
}

// Encode produces the canonical serialized form. Map keys sort
// deterministically under encoding/json, so two semantically equal documents
// always encode to the same bytes.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lesson document: %w", err)
	}
	return data, nil
}

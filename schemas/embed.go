// Package schemas carries the canonical JSON Schema artifacts consumed as
// configuration by the validation layer.
package schemas

import _ "embed"

// Lesson is the Draft 2020-12 schema describing the canonical
// LessonDocument shape.
//
//go:embed lesson.schema.json
var Lesson []byte

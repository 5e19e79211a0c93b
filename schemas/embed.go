// Package schemas holds the JSON Schema documents for catalog artifacts.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names.
const (
	DistroSchema      = "distro.schema.json"
	QuizAnswersSchema = "quiz_answers.schema.json"
)

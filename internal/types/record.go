package types

import (
	"encoding/json"
	"strings"
)

// TrainingRecord is a single Alpaca-style instruction-tuning example.
// JSON key order is fixed by the struct field order so written lines are
// reproducible byte for byte.
type TrainingRecord struct {
	Instruction string `json:"instruction" bson:"instruction"`
	Input       string `json:"input"       bson:"input"`
	Output      string `json:"output"      bson:"output"`
}

// Valid reports whether all three fields are non-empty after trimming.
func (r TrainingRecord) Valid() bool {
	return strings.TrimSpace(r.Instruction) != "" &&
		strings.TrimSpace(r.Input) != "" &&
		strings.TrimSpace(r.Output) != ""
}

// MarshalLine serializes the record as one compact JSON line, without a
// trailing newline.
func (r TrainingRecord) MarshalLine() ([]byte, error) {
	return json.Marshal(r)
}

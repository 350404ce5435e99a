package handler

import "encoding/json"

// RenderRequest is the body of POST /render. Brand is an optional brand
// profile document; Rows is an array of flat records.
type RenderRequest struct {
	Sheet string          `json:"sheet"`
	Brand json.RawMessage `json:"brand"`
	Rows  json.RawMessage `json:"rows"`
}

// FindingDTO is one validation finding.
type FindingDTO struct {
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// ValidationDTO is the result of POST /validate.
type ValidationDTO struct {
	Kind     string       `json:"kind"`
	Valid    bool         `json:"valid"`
	Findings []FindingDTO `json:"findings"`
	Error    string       `json:"error,omitempty"`
}

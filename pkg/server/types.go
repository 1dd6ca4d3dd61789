package server

import (
	"time"

	"mercator-hq/yamllist/pkg/history"
)

// Error kinds for failures outside the engine.
const (
	KindBadRequest       = "BadRequest"
	KindNotFound         = "NotFound"
	KindMethodNotAllowed = "MethodNotAllowed"
	KindHistoryDisabled  = "HistoryDisabled"
	KindInternal         = "Internal"
)

// ListRequest is the JSON form of a POST /v1/list body. Any other content
// type is treated as the raw document.
type ListRequest struct {
	Document string `json:"document"`
	Source   string `json:"source,omitempty"`
}

// ListResponse is returned by a successful POST /v1/list.
type ListResponse struct {
	Result     string  `json:"result"`
	Items      int     `json:"items"`
	Engine     string  `json:"engine"`
	ID         string  `json:"id,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// ErrorResponse wraps every error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request. Engine errors fill every field;
// other failures set Kind and Message only.
type ErrorBody struct {
	Kind       string `json:"kind"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// HistoryResponse is returned by GET /v1/history.
type HistoryResponse struct {
	Records []*history.Record `json:"records"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

func durationMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

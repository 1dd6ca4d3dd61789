package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/yamllist/pkg/history"
	"mercator-hq/yamllist/pkg/service"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

// jsonOverhead bounds the extra bytes a JSON body may carry around the
// document: escaping and the envelope.
const jsonOverhead = 64 * 1024

// handleList renders a document from the request body.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeListRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorBody{
				Kind:    string(ylerrors.KindInputTooLarge),
				Type:    string(ylerrors.ErrorTypeLimit),
				Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeError(w, http.StatusBadRequest, ErrorBody{Kind: KindBadRequest, Message: err.Error()})
		return
	}

	res, err := s.service.List(r.Context(), req)
	if err != nil {
		e, ok := ylerrors.As(err)
		if !ok {
			writeError(w, http.StatusInternalServerError, ErrorBody{Kind: KindInternal, Message: "internal error"})
			return
		}
		status := http.StatusUnprocessableEntity
		if e.Kind == ylerrors.KindInputTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, ErrorBody{
			Kind:       string(e.Kind),
			Type:       string(e.Type),
			Message:    e.Message,
			Line:       e.Location.Line,
			Column:     e.Location.Column,
			Suggestion: e.Suggestion,
		})
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Result:     res.Output,
		Items:      res.Items,
		Engine:     res.Engine,
		ID:         res.ID,
		DurationMS: durationMS(res.Duration),
	})
}

// decodeListRequest reads a JSON envelope or a raw document. The source
// query parameter names the document when the body does not.
func (s *Server) decodeListRequest(w http.ResponseWriter, r *http.Request) (service.Request, error) {
	limit := int64(s.service.Lister().MaxInputBytes())
	isJSON := false
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == "application/json" {
			isJSON = true
		}
	}

	body := r.Body
	if limit > 0 {
		if isJSON {
			limit = limit*2 + jsonOverhead
		}
		body = http.MaxBytesReader(w, r.Body, limit)
	}

	req := service.Request{Source: r.URL.Query().Get("source")}

	if isJSON {
		var lr ListRequest
		if err := json.NewDecoder(body).Decode(&lr); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return req, err
			}
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
		req.Document = lr.Document
		if lr.Source != "" {
			req.Source = lr.Source
		}
		return req, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return req, err
	}
	req.Document = string(data)
	return req, nil
}

// handleHistory lists recorded invocations, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store := s.service.History()
	if store == nil {
		writeError(w, http.StatusNotFound, ErrorBody{Kind: KindHistoryDisabled, Message: "invocation history is disabled"})
		return
	}

	q, err := parseHistoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorBody{Kind: KindBadRequest, Message: err.Error()})
		return
	}

	records, err := store.Query(r.Context(), q)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "history query failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorBody{Kind: KindInternal, Message: "history query failed"})
		return
	}
	total, err := store.Count(r.Context(), q)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "history count failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorBody{Kind: KindInternal, Message: "history query failed"})
		return
	}

	if records == nil {
		records = []*history.Record{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = history.DefaultQueryLimit
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  q.Offset,
	})
}

func parseHistoryQuery(r *http.Request) (history.Query, error) {
	values := r.URL.Query()
	q := history.Query{
		Outcome: values.Get("outcome"),
		Source:  values.Get("source"),
	}

	switch q.Outcome {
	case "", history.OutcomeSuccess, history.OutcomeError:
	default:
		return q, fmt.Errorf("outcome must be %q or %q", history.OutcomeSuccess, history.OutcomeError)
	}

	var err error
	if q.Since, err = parseTime(values.Get("since")); err != nil {
		return q, fmt.Errorf("invalid since: %w", err)
	}
	if q.Until, err = parseTime(values.Get("until")); err != nil {
		return q, fmt.Errorf("invalid until: %w", err)
	}
	if q.Limit, err = parseNonNegative(values.Get("limit")); err != nil {
		return q, fmt.Errorf("invalid limit: %w", err)
	}
	if q.Offset, err = parseNonNegative(values.Get("offset")); err != nil {
		return q, fmt.Errorf("invalid offset: %w", err)
	}
	return q, nil
}

// parseTime accepts RFC 3339 timestamps or a duration relative to now,
// such as "24h".
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseNonNegative(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, body ErrorBody) {
	writeJSON(w, code, ErrorResponse{Error: body})
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/history"
	"mercator-hq/yamllist/pkg/telemetry/logging"
	"mercator-hq/yamllist/pkg/telemetry/metrics"
	"mercator-hq/yamllist/pkg/telemetry/tracing"
	"mercator-hq/yamllist/pkg/ylist"
	"mercator-hq/yamllist/pkg/ylist/engine"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/render"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Deps holds the collaborators of a Service. All fields are optional.
type Deps struct {
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	History history.Storage // nil disables recording
	Logger  *slog.Logger
}

// Request is a single list invocation.
type Request struct {
	Document string
	Source   string // Document name used in errors, logs and history
}

// Result is the outcome of a successful invocation.
type Result struct {
	ID       string        // History record ID
	Output   string        // Rendered list line
	Items    int           // Number of top-level items
	Engine   string        // Engine that parsed the document
	Duration time.Duration // Parse and render time
}

// Service runs the list operation with logging, metrics, tracing and
// history recording around it. It is safe for concurrent use.
type Service struct {
	lister          *ylist.Lister
	engine          string
	maxResultLength int

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	history history.Storage
	backend string
	logger  *slog.Logger
}

// New creates a Service for the engine settings in cfg. History is recorded
// only when cfg.History.Enabled is set and deps.History is non-nil.
func New(cfg *config.Config, deps Deps) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	eng, err := engine.New(cfg.Engine.Name, engine.Options{MaxDepth: cfg.Engine.MaxDepth})
	if err != nil {
		return nil, err
	}

	s := &Service{
		lister:          ylist.New(ylist.WithEngine(eng), ylist.WithMaxInputBytes(cfg.Engine.MaxInputBytes)),
		engine:          eng.Name(),
		maxResultLength: cfg.History.MaxResultLength,
		metrics:         deps.Metrics,
		tracer:          deps.Tracer,
		logger:          deps.Logger,
	}
	if cfg.History.Enabled && deps.History != nil {
		s.history = deps.History
		s.backend = cfg.History.Backend
	}
	if s.tracer == nil {
		s.tracer = tracing.Noop()
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "service")
	}
	return s, nil
}

// Engine returns the name of the configured engine.
func (s *Service) Engine() string {
	return s.engine
}

// Lister returns the underlying Lister.
func (s *Service) Lister() *ylist.Lister {
	return s.lister
}

// History returns the storage invocations are recorded in, or nil.
func (s *Service) History() history.Storage {
	return s.history
}

// ContextLines is the number of document lines shown around an error.
const ContextLines = 2

// List renders the top-level sequence of req.Document. Errors are the
// engine's *ylerrors.Error values, unwrapped, with source context and a
// suggestion filled in.
func (s *Service) List(ctx context.Context, req Request) (*Result, error) {
	ctx = logging.WithEngine(logging.WithSource(ctx, req.Source), s.engine)
	ctx, span := s.tracer.Start(ctx, "list")
	defer span.End()

	tracing.SetListAttributes(span, s.engine, req.Source, len(req.Document))
	if id := logging.GetRequestID(ctx); id != "" {
		span.SetAttributes(attribute.String(tracing.AttrRequestID, id))
	}

	start := time.Now()
	output, items, err := s.list(req)
	duration := time.Since(start)

	rec := &history.Record{
		Timestamp:  start.UTC(),
		RequestID:  logging.GetRequestID(ctx),
		Source:     req.Source,
		Engine:     s.engine,
		InputBytes: len(req.Document),
		Duration:   duration,
	}

	if err != nil {
		err = ylerrors.WithSource(err, req.Document, ContextLines)
		kind := ylerrors.KindOf(err)
		s.metrics.RecordList(s.engine, metrics.OutcomeError, string(kind), duration, len(req.Document))
		tracing.SetListError(span, err)

		attrs := []any{"kind", kind, "duration_us", duration.Microseconds()}
		if e, ok := ylerrors.As(err); ok && e.Location.IsValid() {
			attrs = append(attrs, "line", e.Location.Line, "column", e.Location.Column)
		}
		// Hosts report the error to the caller; this line is diagnostic only.
		s.logger.DebugContext(ctx, "list failed", attrs...)

		rec.Outcome = history.OutcomeError
		rec.ErrorKind = string(kind)
		if e, ok := ylerrors.As(err); ok {
			rec.ErrorMessage = e.Message
			rec.ErrorLine = e.Location.Line
			rec.ErrorColumn = e.Location.Column
		} else {
			rec.ErrorMessage = err.Error()
		}
		s.record(ctx, rec, req.Document)
		return nil, err
	}

	s.metrics.RecordList(s.engine, metrics.OutcomeSuccess, "", duration, len(req.Document))
	tracing.SetListResult(span, items)
	tracing.SetStatus(span, nil)
	s.logger.DebugContext(ctx, "list completed",
		"items", items,
		"input_bytes", len(req.Document),
		"duration_us", duration.Microseconds(),
	)

	rec.Outcome = history.OutcomeSuccess
	rec.Result = truncate(output, s.maxResultLength)
	rec.Items = items
	id := s.record(ctx, rec, req.Document)

	return &Result{
		ID:       id,
		Output:   output,
		Items:    items,
		Engine:   s.engine,
		Duration: duration,
	}, nil
}

func (s *Service) list(req Request) (string, int, error) {
	root, err := s.lister.Parse(req.Source, req.Document)
	if err != nil {
		return "", 0, err
	}
	seq, err := ylist.ToSequence(root)
	if err != nil {
		return "", 0, err
	}
	out, err := render.Sequence(seq)
	if err != nil {
		return "", 0, err
	}
	return out, len(seq.Items), nil
}

// record stores rec and returns its ID. Storage failures are logged and
// counted but never fail the invocation.
func (s *Service) record(ctx context.Context, rec *history.Record, document string) string {
	if s.history == nil {
		return ""
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	rec.ID = id.String()

	sum := sha256.Sum256([]byte(document))
	rec.InputHash = hex.EncodeToString(sum[:])

	if err := s.history.Store(ctx, rec); err != nil {
		s.metrics.RecordHistoryError("store")
		s.logger.ErrorContext(ctx, "failed to store history record", "id", rec.ID, "error", err)
		return ""
	}
	s.metrics.RecordHistoryStored(s.backend)
	return rec.ID
}

// truncate cuts s to at most max bytes without splitting a rune. A max of
// zero or less keeps s whole.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Package service is the registry client. It builds the query, sends
// it through a Transport, classifies the reply and extracts the subject.
//
// The client is stateless apart from its collaborators and is safe for
// concurrent use. Failed exchanges are reported, never retried.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"demographics/internal/registry/classifier"
	"demographics/internal/registry/extract"
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/metrics"
	"demographics/internal/registry/models"
	"demographics/internal/registry/request"
	"demographics/internal/registry/transport"
	"demographics/pkg/requestcontext"
)

const tracerName = "demographics/internal/registry/service"

// DefaultLookupConcurrency bounds LookupMany when no limit is given.
const DefaultLookupConcurrency = 4

// Transport moves one query to the registry and returns its decoded reply.
// Implementations report failures as errors; a nil reply with a nil error
// is treated as a failure.
type Transport interface {
	Send(ctx context.Context, req hl7.ProtocolRequest) (*hl7.ProtocolResponse, error)
}

// Client looks up patient demographics in the client registry.
type Client struct {
	transport  Transport
	builder    *request.Builder
	classifier *classifier.Classifier
	extractor  *extract.Extractor
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The extractor logs through it as well unless
// WithExtractor supplies one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records lookup outcomes and transport latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithClassifier overrides the default classifier, typically to supply a
// configured advisory code list.
func WithClassifier(cl *classifier.Classifier) Option {
	return func(c *Client) {
		c.classifier = cl
	}
}

// WithRequestBuilder overrides the default request builder.
func WithRequestBuilder(b *request.Builder) Option {
	return func(c *Client) {
		c.builder = b
	}
}

// WithExtractor overrides the default extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Client) {
		c.extractor = e
	}
}

// New creates a Client that talks to the registry through t.
func New(t Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, errors.New("transport is required")
	}
	c := &Client{
		transport: t,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.builder == nil {
		c.builder = request.NewBuilder()
	}
	if c.classifier == nil {
		c.classifier = classifier.New(nil)
	}
	if c.extractor == nil {
		c.extractor = extract.New(extract.WithLogger(c.logger))
	}
	return c, nil
}

// LookupByHdid looks up a subject by health gateway identifier.
func (c *Client) LookupByHdid(ctx context.Context, hdid string, allowUnvalidatedIdentifiers bool) models.Outcome {
	return c.Lookup(ctx, models.IdentifierQuery{
		Kind:                        models.OidTypeHdid,
		Value:                       hdid,
		AllowUnvalidatedIdentifiers: allowUnvalidatedIdentifiers,
	})
}

// LookupByPhn looks up a subject by personal health number.
func (c *Client) LookupByPhn(ctx context.Context, phn string, allowUnvalidatedIdentifiers bool) models.Outcome {
	return c.Lookup(ctx, models.IdentifierQuery{
		Kind:                        models.OidTypePhn,
		Value:                       phn,
		AllowUnvalidatedIdentifiers: allowUnvalidatedIdentifiers,
	})
}

// Lookup performs one registry exchange for q. When q carries no client IP
// the one stored in ctx is used, falling back to "Unknown".
func (c *Client) Lookup(ctx context.Context, q models.IdentifierQuery) models.Outcome {
	if q.ClientIP == "" {
		q.ClientIP = requestcontext.ClientIPOr(ctx, models.UnknownClientIP)
	}

	ctx, span := c.tracer.Start(ctx, "registry.lookup", trace.WithAttributes(
		attribute.String("registry.identifier_kind", string(q.Kind)),
		attribute.Bool("registry.allow_unvalidated", q.AllowUnvalidatedIdentifiers),
	))
	defer span.End()

	outcome := c.lookup(ctx, q, span)

	span.SetAttributes(attribute.String("registry.outcome", string(outcome.Kind)))
	c.metrics.IncrementLookup(string(q.Kind), string(outcome.Kind))
	if !outcome.IsSuccess() {
		c.logger.WarnContext(ctx, "registry lookup did not return a patient",
			"identifier_kind", string(q.Kind),
			"outcome", outcome.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return outcome
}

func (c *Client) lookup(ctx context.Context, q models.IdentifierQuery, span trace.Span) models.Outcome {
	if !q.Kind.IsValid() {
		return models.InvalidIdentifierFormat()
	}

	req := c.builder.Build(q)
	span.SetAttributes(attribute.String("registry.message_id", req.ID.Extension))

	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	c.metrics.ObserveTransportLatency(time.Since(start))
	if err != nil {
		terr := transport.Normalize(err, "")
		c.metrics.IncrementTransportFailure(string(terr.Category))
		span.RecordError(err)
		span.SetStatus(codes.Error, terr.Detail())
		return models.TransportFailure(terr.Detail())
	}
	if resp == nil {
		c.metrics.IncrementTransportFailure(string(transport.ErrorInternal))
		span.SetStatus(codes.Error, "no reply")
		return models.TransportFailure(string(transport.ErrorInternal) + ": transport returned no reply")
	}

	span.SetAttributes(attribute.String("registry.response_code", resp.ResponseCode))
	result := c.classifier.Classify(resp.ResponseCode)
	switch result.Kind {
	case classifier.KindNotFound:
		return models.NotFound()
	case classifier.KindInvalidIdentifierFormat:
		return models.InvalidIdentifierFormat()
	case classifier.KindNoPersonReturned:
		return models.UnexpectedRegistryState(resp.ResponseCode)
	}

	outcome := c.extractor.Extract(resp, result, q.AllowUnvalidatedIdentifiers)
	if outcome.IsSuccess() && outcome.Patient.HasAdvisory() {
		c.metrics.IncrementAdvisory(string(q.Kind))
	}
	return outcome
}

// LookupMany runs independent lookups with at most limit in flight and
// returns the outcomes in query order. A limit below one uses
// DefaultLookupConcurrency.
func (c *Client) LookupMany(ctx context.Context, queries []models.IdentifierQuery, limit int) []models.Outcome {
	if limit < 1 {
		limit = DefaultLookupConcurrency
	}
	outcomes := make([]models.Outcome, len(queries))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			outcomes[i] = c.Lookup(ctx, q)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

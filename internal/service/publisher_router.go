package service

import (
	"fmt"

	"rpaetl/internal/domain"
	"rpaetl/internal/port"
)

// PublisherRouter maps a pipeline kind to the publisher that delivers its envelopes.
type PublisherRouter struct {
	routes map[domain.PipelineKind]port.EnvelopePublisher
}

// NewPublisherRouter creates an empty router.
func NewPublisherRouter() *PublisherRouter {
	return &PublisherRouter{routes: make(map[domain.PipelineKind]port.EnvelopePublisher)}
}

// Route registers pub for kind. A nil pub leaves the kind unrouted.
func (r *PublisherRouter) Route(kind domain.PipelineKind, pub port.EnvelopePublisher) *PublisherRouter {
	if pub != nil {
		r.routes[kind] = pub
	}
	return r
}

// For returns the publisher for kind or ErrPublisherUnavailable.
func (r *PublisherRouter) For(kind domain.PipelineKind) (port.EnvelopePublisher, error) {
	if r != nil {
		if pub, ok := r.routes[kind]; ok {
			return pub, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPublisherUnavailable, kind)
}

// Has reports whether kind has a publisher.
func (r *PublisherRouter) Has(kind domain.PipelineKind) bool {
	_, err := r.For(kind)
	return err == nil
}

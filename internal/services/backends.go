// Package services routes every entity operation to the active store and
// turns store faults into nil, false or empty results.
//
// When Primary is set it answers alone, except for the operations marked
// fallThrough, which retry on Fallback after a primary error. When Primary
// is nil, Fallback answers everything.
package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/metrics"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

const (
	RelevanceThreshold = repositories.RelevanceThreshold
	RelevanceLimit     = repositories.RelevanceLimit
)

type Backends struct {
	Primary  *repositories.Set
	Fallback *repositories.Set
}

var errNoStore = errors.New("no store configured")

type policy int

const (
	primaryOnly policy = iota
	fallThrough
)

type router struct {
	b   Backends
	log logrus.FieldLogger
}

func newRouter(b Backends, log logrus.FieldLogger) *router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &router{b: b, log: log}
}

// run calls fn on the active store and returns zero on any fault. A missing
// row is not a fault.
func run[T any](ctx context.Context, r *router, op string, pol policy, zero T, fn func(ctx context.Context, s *repositories.Set) (T, error)) T {
	if p := r.b.Primary; p != nil {
		v, err := fn(ctx, p)
		if err == nil {
			metrics.StoreCall(p.Name, op, metrics.OutcomeOK)
			return v
		}
		if pol != fallThrough {
			r.fault(p.Name, op, err)
			return zero
		}
		metrics.StoreCall(p.Name, op, metrics.OutcomeFallback)
		r.log.WithFields(logrus.Fields{"op": op, "backend": p.Name}).
			WithError(err).Warn("primary store failed, retrying on fallback")
	}

	f := r.b.Fallback
	if f == nil {
		r.fault("none", op, errNoStore)
		return zero
	}
	v, err := fn(ctx, f)
	if err != nil {
		r.fault(f.Name, op, err)
		return zero
	}
	metrics.StoreCall(f.Name, op, metrics.OutcomeOK)
	return v
}

func (r *router) fault(backend, op string, err error) {
	if errors.Is(err, utils.ErrNotFound) {
		metrics.StoreCall(backend, op, metrics.OutcomeOK)
		return
	}
	metrics.StoreCall(backend, op, metrics.OutcomeFault)
	r.log.WithFields(logrus.Fields{"op": op, "backend": backend}).WithError(err).Error("store call failed")
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

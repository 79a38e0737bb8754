// Package reporting computes reports from a store, caches their renderings
// and announces new ones.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/cache"
	"github.com/etnz/tradebook/events"
	"github.com/etnz/tradebook/export"
	"github.com/etnz/tradebook/store"
	"go.uber.org/zap"
)

// Publisher announces computed reports.
type Publisher interface {
	Publish(ctx context.Context, report *tradebook.Report) (events.ReportComputed, error)
}

// Service computes the report of the current content of a store.
//
// The report of a snapshot is computed once: as long as the store content
// does not change, the same report is returned.
type Service struct {
	store     store.Store
	engine    *tradebook.Engine
	cache     cache.Cache
	publisher Publisher
	logger    *zap.Logger

	mu   sync.Mutex
	last *tradebook.Report
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches the renderings of reports in c.
func WithCache(c cache.Cache) Option { return func(s *Service) { s.cache = c } }

// WithPublisher publishes an event for each newly computed report.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

// NewService returns a service reading st.
func NewService(st store.Store, engine *tradebook.Engine, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  st,
		engine: engine,
		cache:  &cache.Memory{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report loads the store content and returns its report.
func (s *Service) Report(ctx context.Context) (*tradebook.Report, error) {
	snapshot, err := store.LoadSnapshot(ctx, s.store, store.LedgerFilter{}, store.ReceiptFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	digest := snapshot.Digest()

	report, computed := s.compute(snapshot, digest)
	// Published outside the lock.
	if computed && s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, report); err != nil {
			s.logger.Error("failed to publish report event", zap.String("digest", digest), zap.Error(err))
		}
	}
	return report, nil
}

// compute returns the report of snapshot, and whether it was computed by
// this call rather than reused.
func (s *Service) compute(snapshot *tradebook.Snapshot, digest string) (*tradebook.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && s.last.Digest == digest {
		return s.last, false
	}
	report := s.engine.Run(snapshot)
	s.last = report
	s.logger.Info("report computed",
		zap.String("digest", digest),
		zap.Int("products", len(report.Positions)),
		zap.Int("accounts", len(report.Balances.Accounts)))
	return report, true
}

// Refresh computes the report of the current store content, discarding it.
// It is meant to be scheduled.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Report(ctx)
	return err
}

// JSON is the format of Render for the JSON encoding of the report.
const JSON export.Format = "json"

// Render returns the report of the current store content in format f, and
// the report it was rendered from.
func (s *Service) Render(ctx context.Context, f export.Format) ([]byte, *tradebook.Report, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, nil, err
	}
	payload, err := cache.GetOrCompute(ctx, s.cache, s.logger, cache.Key(report.Digest, string(f)), func() ([]byte, error) {
		if f == JSON {
			return json.Marshal(report)
		}
		var b bytes.Buffer
		if err := export.Write(&b, report, f); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rendering report as %s: %w", f, err)
	}
	return payload, report, nil
}

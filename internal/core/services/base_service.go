package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// errReadOnly rolls back a unit of work that only needed row locks.
var errReadOnly = errors.New("read-only unit of work")

// BaseService provides common functionality for all services
type BaseService struct {
	provider        portsrepo.RepositoryProvider
	clock           func() time.Time
	defaultLocation string
	tolerance       decimal.Decimal
}

// ServiceOption is a functional option for configuring a service
type ServiceOption func(*BaseService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithDefaultLocation sets the stock location used when a request names none.
func WithDefaultLocation(locationID string) ServiceOption {
	return func(s *BaseService) {
		s.defaultLocation = locationID
	}
}

// WithAmountTolerance sets the accepted rounding difference for document totals.
func WithAmountTolerance(tol decimal.Decimal) ServiceOption {
	return func(s *BaseService) {
		s.tolerance = tol
	}
}

func newBaseService(provider portsrepo.RepositoryProvider, options ...ServiceOption) BaseService {
	base := BaseService{
		provider:        provider,
		clock:           time.Now,
		defaultLocation: "main",
		tolerance:       accounting.DefaultTolerance,
	}
	for _, option := range options {
		option(&base)
	}
	return base
}

func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// repos returns the repositories for reads outside a unit of work.
func (s *BaseService) repos() portsrepo.Repositories {
	return s.provider.Repos
}

// inTx runs fn in one unit of work.
func (s *BaseService) inTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return s.provider.UnitOfWork.Execute(ctx, fn)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

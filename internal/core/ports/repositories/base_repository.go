package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. The repositories it receives share one atomic scope.
type TxFunc func(ctx context.Context, repos Repositories) error

// UnitOfWork runs a function inside one atomic storage scope.
type UnitOfWork interface {
	// Execute commits when fn returns nil and rolls every change back otherwise.
	// The error returned by fn is passed through unchanged.
	Execute(ctx context.Context, fn TxFunc) error
}

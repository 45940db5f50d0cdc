package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const biz = "biz-1"

func account(id, code string) domain.Account {
	return domain.Account{
		AccountID:   id,
		BusinessID:  biz,
		Code:        code,
		Name:        code,
		AccountType: domain.Cash,
		IsActive:    true,
		AuditFields: domain.NewAuditFields("u1", time.Now()),
	}
}

func TestExecute_RollsBackOnError(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Execute(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		require.NoError(t, repos.Accounts.SaveAccount(ctx, account("a1", "1000")))
		_, err := repos.Accounts.FindAccountByID(ctx, biz, "a1")
		require.NoError(t, err, "writes are visible inside the unit")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repositories().Accounts.FindAccountByID(ctx, biz, "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecute_CommitsOnSuccess(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.Execute(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		return repos.Accounts.SaveAccount(ctx, account("a1", "1000"))
	})
	require.NoError(t, err)

	acc, err := store.Repositories().Accounts.FindAccountByID(ctx, biz, "a1")
	require.NoError(t, err)
	assert.Equal(t, "1000", acc.Code)

	err = store.Repositories().Accounts.SaveAccount(ctx, account("a2", "1000"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestExecute_SerializesUnits(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	key := domain.StockKey{ProductID: "p1", LocationID: "main"}
	require.NoError(t, store.Repositories().Inventory.EnsureInventory(ctx, biz, []domain.StockKey{key}, "u1", time.Now()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Execute(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
				rows, err := repos.Inventory.LockInventory(ctx, biz, []domain.StockKey{key})
				if err != nil {
					return err
				}
				inv := rows[0]
				inv.OnHandQuantity = inv.OnHandQuantity.Add(decimal.NewFromInt(1))
				return repos.Inventory.UpdateInventory(ctx, inv)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	inv, err := store.Repositories().Inventory.FindInventory(ctx, biz, key)
	require.NoError(t, err)
	assert.True(t, inv.OnHandQuantity.Equal(decimal.NewFromInt(50)), "got %s", inv.OnHandQuantity)
	assert.True(t, inv.AvailableQuantity.Equal(decimal.NewFromInt(50)))
}

func TestExecute_CancelledContext(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.Execute(ctx, func(context.Context, portsrepo.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDocumentNumbersAreUnique(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	repos := store.Repositories()
	doc := domain.Document{DocumentID: "d1", BusinessID: biz, Kind: domain.KindSale, Number: "S-1"}
	require.NoError(t, repos.Documents.SaveDocument(ctx, doc))

	doc.DocumentID = "d2"
	assert.ErrorIs(t, repos.Documents.SaveDocument(ctx, doc), apperrors.ErrDuplicate)

	doc.Kind = domain.KindInvoice
	assert.NoError(t, repos.Documents.SaveDocument(ctx, doc), "numbers are scoped by kind")

	found, err := repos.Documents.FindDocumentByNumber(ctx, biz, domain.KindSale, "S-1")
	require.NoError(t, err)
	assert.Equal(t, "d1", found.DocumentID)
}

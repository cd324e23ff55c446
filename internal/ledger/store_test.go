package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/testutil"
)

func newAccount(address string) *models.Account {
	return &models.Account{
		Address:    address,
		Kind:       models.AccountKindWallet,
		Owner:      "farmer-a",
		Timestamps: models.Timestamps{CreatedAt: 10, UpdatedAt: 10},
	}
}

func TestCreateIfAbsentRejectsOccupiedAddress(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))

	require.NoError(t, store.CreateIfAbsent(newAccount("addr-1")))

	err := store.CreateIfAbsent(newAccount("addr-1"))
	assert.True(t, errors.Is(err, ledger.ErrAlreadyExists))
}

func TestLoadMissingRecord(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))

	var account models.Account
	err := store.Load(&account, "nowhere")
	assert.True(t, errors.Is(err, ledger.ErrNotFound))

	err = store.Get(context.Background(), &account, "nowhere")
	assert.True(t, errors.Is(err, ledger.ErrNotFound))
}

func TestAtomicRollsBackEveryWrite(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))
	boom := errors.New("boom")

	err := store.Atomic(context.Background(), func(tx *ledger.Store) error {
		require.NoError(t, tx.CreateIfAbsent(newAccount("addr-1")))
		require.NoError(t, tx.CreateIfAbsent(newAccount("addr-2")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var account models.Account
	assert.True(t, errors.Is(store.Get(context.Background(), &account, "addr-1"), ledger.ErrNotFound))
	assert.True(t, errors.Is(store.Get(context.Background(), &account, "addr-2"), ledger.ErrNotFound))
}

func TestSavePersistsChanges(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))
	account := newAccount("addr-1")
	require.NoError(t, store.CreateIfAbsent(account))

	account.Balance = 42
	account.UpdatedAt = 20
	require.NoError(t, store.Save(account))

	var loaded models.Account
	require.NoError(t, store.Get(context.Background(), &loaded, "addr-1"))
	assert.Equal(t, uint64(42), loaded.Balance)
	assert.Equal(t, int64(10), loaded.CreatedAt)
	assert.Equal(t, int64(20), loaded.UpdatedAt)
}

func TestNextNonceCountsPerIdentity(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))

	for want := uint64(0); want < 3; want++ {
		got, err := store.NextNonce("farmer-a")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := store.NextNonce("farmer-b")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestNextNonceRollsBackWithTransaction(t *testing.T) {
	store := ledger.NewStore(testutil.NewDB(t))

	_ = store.Atomic(context.Background(), func(tx *ledger.Store) error {
		_, err := tx.NextNonce("farmer-a")
		require.NoError(t, err)
		return errors.New("abort")
	})

	got, err := store.NextNonce("farmer-a")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

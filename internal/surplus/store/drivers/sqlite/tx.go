package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op for transactions, the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles             { return &profilesRepo{db: t.tx} }
func (t *txStore) Notifications() store.Notifications   { return &notificationsRepo{db: t.tx} }
func (t *txStore) Listings() store.Listings             { return &listingsRepo{db: t.tx} }
func (t *txStore) SigningSecrets() store.SigningSecrets { return &signingSecretsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

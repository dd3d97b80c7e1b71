package gymauth

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var _ TokenStore = (*BunTokenStore)(nil)

// NewTokenRecordsRepository builds the repository for persisted token slots
func NewTokenRecordsRepository(db *bun.DB) repository.Repository[*TokenRecord] {
	handlers := repository.ModelHandlers[*TokenRecord]{
		NewRecord: func() *TokenRecord {
			return &TokenRecord{}
		},
		GetID: func(record *TokenRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *TokenRecord, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
	}
	return repository.NewRepository(db, handlers)
}

// BunTokenStore is the durable token store, the desktop/server analogue of
// the web client's local storage. Both slots are written and deleted inside
// one transaction so a reader never observes a half-updated pair.
type BunTokenStore struct {
	db      *bun.DB
	records repository.Repository[*TokenRecord]
	logger  Logger
}

// NewBunTokenStore returns a store backed by the given database
func NewBunTokenStore(db *bun.DB) *BunTokenStore {
	return &BunTokenStore{
		db:      db,
		records: NewTokenRecordsRepository(db),
		logger:  defLogger{},
	}
}

// WithLogger sets the store logger
func (s *BunTokenStore) WithLogger(logger Logger) *BunTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// OpenSessionDB opens the sqlite-backed session database for the durable
// token store and registers the token record model.
func OpenSessionDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open session database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*TokenRecord)(nil))

	return db, nil
}

// SetTokens upserts both slots in one transaction
func (s *BunTokenStore) SetTokens(ctx context.Context, access, refresh string) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for key, value := range map[string]string{
			AccessTokenKey:  access,
			RefreshTokenKey: refresh,
		} {
			record := &TokenRecord{Key: key, Value: value}
			if id, err := hashid.NewUUID(key); err == nil {
				record.ID = id
			}

			if _, err := tx.NewInsert().
				Model(record).
				On("CONFLICT (key) DO UPDATE").
				Set("value = EXCLUDED.value").
				Set("updated_at = CURRENT_TIMESTAMP").
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token pair")
	}

	return nil
}

// AccessToken returns the persisted access token or empty
func (s *BunTokenStore) AccessToken(ctx context.Context) (string, error) {
	return s.lookup(ctx, AccessTokenKey)
}

// RefreshToken returns the persisted refresh token or empty
func (s *BunTokenStore) RefreshToken(ctx context.Context) (string, error) {
	return s.lookup(ctx, RefreshTokenKey)
}

func (s *BunTokenStore) lookup(ctx context.Context, key string) (string, error) {
	record, err := s.records.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", nil
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read token slot")
	}

	return record.Value, nil
}

// Clear deletes both slots in one transaction
func (s *BunTokenStore) Clear(ctx context.Context) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*TokenRecord)(nil)).
			Where("key IN (?, ?)", AccessTokenKey, RefreshTokenKey).
			Exec(ctx)
		return err
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear token pair")
	}

	return nil
}

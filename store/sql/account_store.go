package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-appaccount/core"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountStore persists account aggregates across the app_accounts table
// and its child tables. Child rows are replaced wholesale on Save. With a
// secret provider, every non-empty value except owner and name is sealed.
type AccountStore struct {
	db      *bun.DB
	repo    repository.Repository[*accountRecord]
	secrets core.SecretProvider
}

func NewAccountStore(db *bun.DB, secrets core.SecretProvider) (*AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*accountRecord](db, accountHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid account repository wiring: %w", err)
		}
	}
	return &AccountStore{
		db:      db,
		repo:    repo,
		secrets: secrets,
	}, nil
}

func (s *AccountStore) Create(ctx context.Context, account core.Account) (core.Account, error) {
	if s == nil || s.db == nil || s.repo == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	extraInfo, err := s.seal(ctx, account.ExtraInfo)
	if err != nil {
		return core.Account{}, err
	}
	now := time.Now().UTC()
	record := &accountRecord{
		ID:          strings.TrimSpace(account.ID),
		Owner:       account.Owner,
		Name:        account.Name,
		ExtraInfo:   extraInfo,
		SyncEnabled: account.SyncEnabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	var created core.Account
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*accountRecord)(nil)).
			Where("?TableAlias.owner = ?", account.Owner).
			Where("?TableAlias.name = ?", account.Name).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return core.AlreadyExistsError(fmt.Sprintf("sqlstore: account %q already exists for %q", account.Name, account.Owner))
		}
		inserted, err := s.repo.CreateTx(ctx, tx, record)
		if err != nil {
			return err
		}
		if err := s.insertChildren(ctx, tx, inserted.ID, account); err != nil {
			return err
		}
		created = account.Clone()
		created.ID = inserted.ID
		created.CreatedAt = inserted.CreatedAt
		created.UpdatedAt = inserted.UpdatedAt
		return nil
	})
	if err != nil {
		return core.Account{}, err
	}
	return created, nil
}

func (s *AccountStore) Get(ctx context.Context, ref core.AccountRef) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	record, err := s.findAccount(ctx, s.db, ref)
	if err != nil {
		return core.Account{}, err
	}
	accounts, err := s.hydrate(ctx, []*accountRecord{record})
	if err != nil {
		return core.Account{}, err
	}
	return accounts[0], nil
}

func (s *AccountStore) Save(ctx context.Context, account core.Account) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	extraInfo, err := s.seal(ctx, account.ExtraInfo)
	if err != nil {
		return core.Account{}, err
	}
	now := time.Now().UTC()
	var saved core.Account
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.findAccount(ctx, tx, account.Ref())
		if err != nil {
			return err
		}
		if _, err := tx.NewUpdate().
			Model((*accountRecord)(nil)).
			Set("extra_info = ?", extraInfo).
			Set("sync_enabled = ?", account.SyncEnabled).
			Set("updated_at = ?", now).
			Where("id = ?", record.ID).
			Exec(ctx); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, record.ID); err != nil {
			return err
		}
		if err := s.insertChildren(ctx, tx, record.ID, account); err != nil {
			return err
		}
		saved = account.Clone()
		saved.ID = record.ID
		saved.CreatedAt = record.CreatedAt
		saved.UpdatedAt = now
		return nil
	})
	if err != nil {
		return core.Account{}, err
	}
	return saved, nil
}

func (s *AccountStore) Delete(ctx context.Context, ref core.AccountRef) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: account store is not configured")
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.findAccount(ctx, tx, ref)
		if err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, record.ID); err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*accountRecord)(nil)).
			Where("id = ?", record.ID).
			Exec(ctx)
		return err
	})
}

func (s *AccountStore) ListByOwner(ctx context.Context, owner string) ([]core.Account, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: account store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("owner", "=", owner),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, records)
}

func (s *AccountStore) ListGrantedTo(ctx context.Context, appID string) ([]core.Account, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: account store is not configured")
	}
	granted := s.db.NewSelect().
		Model((*accessGrantRecord)(nil)).
		Column("account_id").
		Where("bundle_name = ?", appID)

	records := make([]*accountRecord, 0)
	if err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", granted).
		OrderExpr("?TableAlias.owner ASC, ?TableAlias.name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, records)
}

func (s *AccountStore) findAccount(ctx context.Context, db bun.IDB, ref core.AccountRef) (*accountRecord, error) {
	record := &accountRecord{}
	err := db.NewSelect().
		Model(record).
		Where("?TableAlias.owner = ?", ref.Owner).
		Where("?TableAlias.name = ?", ref.Name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NotFoundError(fmt.Sprintf("sqlstore: account %q not found for %q", ref.Name, ref.Owner))
		}
		return nil, err
	}
	return record, nil
}

func (s *AccountStore) insertChildren(ctx context.Context, tx bun.Tx, accountID string, account core.Account) error {
	if len(account.Credentials) > 0 {
		rows := make([]credentialRecord, 0, len(account.Credentials))
		for credentialType, value := range account.Credentials {
			sealed, err := s.seal(ctx, value)
			if err != nil {
				return err
			}
			rows = append(rows, credentialRecord{AccountID: accountID, CredentialType: credentialType, Value: sealed})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
	}
	if len(account.AssociatedData) > 0 {
		rows := make([]associatedDataRecord, 0, len(account.AssociatedData))
		for key, value := range account.AssociatedData {
			sealed, err := s.seal(ctx, value)
			if err != nil {
				return err
			}
			rows = append(rows, associatedDataRecord{AccountID: accountID, Key: key, Value: sealed})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
	}
	if len(account.OAuthTokens) > 0 {
		tokens := make([]oauthTokenRecord, 0, len(account.OAuthTokens))
		visibility := make([]tokenVisibilityRecord, 0)
		for authType, entry := range account.OAuthTokens {
			sealed, err := s.seal(ctx, entry.Token)
			if err != nil {
				return err
			}
			tokens = append(tokens, oauthTokenRecord{AccountID: accountID, AuthType: authType, Token: sealed})
			for _, bundleName := range entry.Visibility {
				visibility = append(visibility, tokenVisibilityRecord{
					AccountID:  accountID,
					AuthType:   authType,
					BundleName: bundleName,
				})
			}
		}
		if _, err := tx.NewInsert().Model(&tokens).Exec(ctx); err != nil {
			return err
		}
		if len(visibility) > 0 {
			if _, err := tx.NewInsert().Model(&visibility).Exec(ctx); err != nil {
				return err
			}
		}
	}
	if len(account.AccessGrants) > 0 {
		rows := make([]accessGrantRecord, 0, len(account.AccessGrants))
		for _, bundleName := range account.AccessGrants {
			rows = append(rows, accessGrantRecord{AccountID: accountID, BundleName: bundleName})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// deleteChildren removes rows in dependency order so drivers without
// foreign key enforcement end in the same state.
func deleteChildren(ctx context.Context, tx bun.Tx, accountID string) error {
	models := []any{
		(*tokenVisibilityRecord)(nil),
		(*oauthTokenRecord)(nil),
		(*credentialRecord)(nil),
		(*associatedDataRecord)(nil),
		(*accessGrantRecord)(nil),
	}
	for _, model := range models {
		if _, err := tx.NewDelete().
			Model(model).
			Where("account_id = ?", accountID).
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *AccountStore) hydrate(ctx context.Context, records []*accountRecord) ([]core.Account, error) {
	out := make([]core.Account, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(records))
	byID := make(map[string]*core.Account, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		ids = append(ids, record.ID)
		account := record.toDomain()
		extraInfo, err := s.open(ctx, record.ExtraInfo)
		if err != nil {
			return nil, err
		}
		account.ExtraInfo = extraInfo
		out = append(out, account)
		byID[record.ID] = &out[len(out)-1]
	}

	credentials := make([]credentialRecord, 0)
	if err := s.db.NewSelect().Model(&credentials).Where("account_id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range credentials {
		account, ok := byID[row.AccountID]
		if !ok {
			continue
		}
		value, err := s.open(ctx, row.Value)
		if err != nil {
			return nil, err
		}
		account.Credentials[row.CredentialType] = value
	}

	associated := make([]associatedDataRecord, 0)
	if err := s.db.NewSelect().Model(&associated).Where("account_id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range associated {
		account, ok := byID[row.AccountID]
		if !ok {
			continue
		}
		value, err := s.open(ctx, row.Value)
		if err != nil {
			return nil, err
		}
		account.AssociatedData[row.Key] = value
	}

	tokens := make([]oauthTokenRecord, 0)
	if err := s.db.NewSelect().Model(&tokens).Where("account_id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range tokens {
		account, ok := byID[row.AccountID]
		if !ok {
			continue
		}
		token, err := s.open(ctx, row.Token)
		if err != nil {
			return nil, err
		}
		account.OAuthTokens[row.AuthType] = core.OAuthTokenEntry{Token: token, Visibility: []string{}}
	}

	visibility := make([]tokenVisibilityRecord, 0)
	if err := s.db.NewSelect().
		Model(&visibility).
		Where("account_id IN (?)", bun.In(ids)).
		OrderExpr("bundle_name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range visibility {
		account, ok := byID[row.AccountID]
		if !ok {
			continue
		}
		entry, ok := account.OAuthTokens[row.AuthType]
		if !ok {
			continue
		}
		entry.Visibility = append(entry.Visibility, row.BundleName)
		account.OAuthTokens[row.AuthType] = entry
	}

	grants := make([]accessGrantRecord, 0)
	if err := s.db.NewSelect().Model(&grants).Where("account_id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, row := range grants {
		if account, ok := byID[row.AccountID]; ok {
			account.AccessGrants = append(account.AccessGrants, row.BundleName)
		}
	}
	for i := range out {
		sort.Strings(out[i].AccessGrants)
	}
	return out, nil
}

func (s *AccountStore) seal(ctx context.Context, value string) (string, error) {
	if s.secrets == nil || value == "" {
		return value, nil
	}
	sealed, err := s.secrets.Encrypt(ctx, []byte(value))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "sqlstore: seal secret value")
	}
	return string(sealed), nil
}

func (s *AccountStore) open(ctx context.Context, value string) (string, error) {
	if s.secrets == nil || value == "" {
		return value, nil
	}
	plain, err := s.secrets.Decrypt(ctx, []byte(value))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "sqlstore: open secret value")
	}
	return string(plain), nil
}

func (r *accountRecord) toDomain() core.Account {
	account := core.NewAccount(r.Owner, r.Name, r.ExtraInfo)
	account.ID = r.ID
	account.SyncEnabled = r.SyncEnabled
	account.CreatedAt = r.CreatedAt
	account.UpdatedAt = r.UpdatedAt
	return account
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-appaccount/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AppRegistryStore is the persistent app directory. Registering an app that
// already exists replaces its authenticator metadata.
type AppRegistryStore struct {
	db   *bun.DB
	repo repository.Repository[*appRegistrationRecord]
}

func NewAppRegistryStore(db *bun.DB) (*AppRegistryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*appRegistrationRecord](db, appRegistrationHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid app registration repository wiring: %w", err)
		}
	}
	return &AppRegistryStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *AppRegistryStore) Register(ctx context.Context, registration core.AppRegistration) (core.AppRegistration, error) {
	if s == nil || s.db == nil || s.repo == nil {
		return core.AppRegistration{}, fmt.Errorf("sqlstore: app registry store is not configured")
	}
	appID := strings.TrimSpace(registration.AppID)
	if appID == "" {
		return core.AppRegistration{}, fmt.Errorf("sqlstore: app id is required")
	}
	now := time.Now().UTC()

	var out core.AppRegistration
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findRegistration(ctx, tx, appID)
		if err != nil {
			return err
		}
		if record == nil {
			record = &appRegistrationRecord{
				ID:        uuid.NewString(),
				AppID:     appID,
				CreatedAt: now,
			}
			applyAuthenticator(record, registration.Authenticator)
			record.UpdatedAt = now
			created, createErr := s.repo.CreateTx(ctx, tx, record)
			if createErr != nil {
				return createErr
			}
			out = created.toDomain()
			return nil
		}

		applyAuthenticator(record, registration.Authenticator)
		record.UpdatedAt = now
		if _, updateErr := tx.NewUpdate().
			Model(record).
			Where("id = ?", record.ID).
			Exec(ctx); updateErr != nil {
			return updateErr
		}
		out = record.toDomain()
		return nil
	})
	if err != nil {
		return core.AppRegistration{}, err
	}
	return out, nil
}

func (s *AppRegistryStore) IsRegistered(ctx context.Context, appID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("sqlstore: app registry store is not configured")
	}
	return s.db.NewSelect().
		Model((*appRegistrationRecord)(nil)).
		Where("?TableAlias.app_id = ?", strings.TrimSpace(appID)).
		Exists(ctx)
}

func (s *AppRegistryStore) GetAuthenticator(ctx context.Context, owner string) (core.AuthenticatorInfo, error) {
	if s == nil || s.db == nil {
		return core.AuthenticatorInfo{}, fmt.Errorf("sqlstore: app registry store is not configured")
	}
	record, err := findRegistration(ctx, s.db, strings.TrimSpace(owner))
	if err != nil {
		return core.AuthenticatorInfo{}, err
	}
	if record == nil || !record.HasAuthenticator {
		return core.AuthenticatorInfo{}, core.NotFoundError(fmt.Sprintf("sqlstore: authenticator for %q not found", owner))
	}
	return core.AuthenticatorInfo{
		Owner:   record.AppID,
		IconID:  record.IconID,
		LabelID: record.LabelID,
	}, nil
}

// Lookup returns the registration for appID and whether it exists.
func (s *AppRegistryStore) Lookup(ctx context.Context, appID string) (core.AppRegistration, bool, error) {
	if s == nil || s.db == nil {
		return core.AppRegistration{}, false, fmt.Errorf("sqlstore: app registry store is not configured")
	}
	record, err := findRegistration(ctx, s.db, strings.TrimSpace(appID))
	if err != nil || record == nil {
		return core.AppRegistration{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *AppRegistryStore) List(ctx context.Context) ([]core.AppRegistration, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: app registry store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("app_id ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]core.AppRegistration, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		out = append(out, record.toDomain())
	}
	return out, nil
}

func findRegistration(ctx context.Context, db bun.IDB, appID string) (*appRegistrationRecord, error) {
	record := &appRegistrationRecord{}
	err := db.NewSelect().
		Model(record).
		Where("?TableAlias.app_id = ?", appID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func applyAuthenticator(record *appRegistrationRecord, info *core.AuthenticatorInfo) {
	if info == nil {
		record.HasAuthenticator = false
		record.IconID = 0
		record.LabelID = 0
		return
	}
	record.HasAuthenticator = true
	record.IconID = info.IconID
	record.LabelID = info.LabelID
}

func (r *appRegistrationRecord) toDomain() core.AppRegistration {
	out := core.AppRegistration{
		AppID:     r.AppID,
		CreatedAt: r.CreatedAt,
	}
	if r.HasAuthenticator {
		out.Authenticator = &core.AuthenticatorInfo{
			Owner:   r.AppID,
			IconID:  r.IconID,
			LabelID: r.LabelID,
		}
	}
	return out
}

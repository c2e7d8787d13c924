package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type accountRecord struct {
	bun.BaseModel `bun:"table:app_accounts,alias:aa"`

	ID          string    `bun:"id,pk"`
	Owner       string    `bun:"owner,notnull"`
	Name        string    `bun:"name,notnull"`
	ExtraInfo   string    `bun:"extra_info,notnull"`
	SyncEnabled bool      `bun:"sync_enabled,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type credentialRecord struct {
	bun.BaseModel `bun:"table:account_credentials,alias:acr"`

	AccountID      string `bun:"account_id,pk"`
	CredentialType string `bun:"credential_type,pk"`
	Value          string `bun:"value,notnull"`
}

type associatedDataRecord struct {
	bun.BaseModel `bun:"table:account_associated_data,alias:aad"`

	AccountID string `bun:"account_id,pk"`
	Key       string `bun:"data_key,pk"`
	Value     string `bun:"value,notnull"`
}

// oauthTokenRecord exists for every live authType entry, including entries
// that only carry visibility and an empty token.
type oauthTokenRecord struct {
	bun.BaseModel `bun:"table:account_oauth_tokens,alias:aot"`

	AccountID string `bun:"account_id,pk"`
	AuthType  string `bun:"auth_type,pk"`
	Token     string `bun:"token,notnull"`
}

type tokenVisibilityRecord struct {
	bun.BaseModel `bun:"table:account_token_visibility,alias:atv"`

	AccountID  string `bun:"account_id,pk"`
	AuthType   string `bun:"auth_type,pk"`
	BundleName string `bun:"bundle_name,pk"`
}

type accessGrantRecord struct {
	bun.BaseModel `bun:"table:account_access_grants,alias:aag"`

	AccountID  string `bun:"account_id,pk"`
	BundleName string `bun:"bundle_name,pk"`
}

type appRegistrationRecord struct {
	bun.BaseModel `bun:"table:app_registrations,alias:ar"`

	ID               string    `bun:"id,pk"`
	AppID            string    `bun:"app_id,notnull"`
	HasAuthenticator bool      `bun:"has_authenticator,notnull"`
	IconID           int       `bun:"icon_id,notnull"`
	LabelID          int       `bun:"label_id,notnull"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

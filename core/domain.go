package core

import (
	"sort"
	"time"
)

// AccountRef identifies an account. Names are unique per owning app.
type AccountRef struct {
	Owner string
	Name  string
}

func (r AccountRef) key() string {
	return r.Owner + "\x00" + r.Name
}

// AppAccountInfo is the {owner, name} pair exposed to listeners and
// enumeration callers.
type AppAccountInfo struct {
	Owner string
	Name  string
}

// OAuthTokenEntry holds one authType slot. The slot lives while either the
// token or the visibility list is non-empty.
type OAuthTokenEntry struct {
	Token      string
	Visibility []string
}

type OAuthTokenInfo struct {
	AuthType string
	Token    string
}

type AuthenticatorInfo struct {
	Owner   string
	IconID  int
	LabelID int
}

type AppRegistration struct {
	AppID         string
	Authenticator *AuthenticatorInfo
	CreatedAt     time.Time
}

type Account struct {
	ID             string
	Owner          string
	Name           string
	ExtraInfo      string
	Credentials    map[string]string
	AssociatedData map[string]string
	OAuthTokens    map[string]OAuthTokenEntry
	AccessGrants   []string
	SyncEnabled    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewAccount(owner string, name string, extraInfo string) Account {
	return Account{
		Owner:          owner,
		Name:           name,
		ExtraInfo:      extraInfo,
		Credentials:    map[string]string{},
		AssociatedData: map[string]string{},
		OAuthTokens:    map[string]OAuthTokenEntry{},
		AccessGrants:   []string{},
	}
}

func (a Account) Ref() AccountRef {
	return AccountRef{Owner: a.Owner, Name: a.Name}
}

func (a Account) Info() AppAccountInfo {
	return AppAccountInfo{Owner: a.Owner, Name: a.Name}
}

// Clone returns a deep copy; stores hand out clones so callers never share
// map state with the authoritative copy.
func (a Account) Clone() Account {
	cloned := a
	cloned.Credentials = copyStringMap(a.Credentials)
	cloned.AssociatedData = copyStringMap(a.AssociatedData)
	cloned.OAuthTokens = make(map[string]OAuthTokenEntry, len(a.OAuthTokens))
	for authType, entry := range a.OAuthTokens {
		cloned.OAuthTokens[authType] = OAuthTokenEntry{
			Token:      entry.Token,
			Visibility: append([]string{}, entry.Visibility...),
		}
	}
	cloned.AccessGrants = append([]string{}, a.AccessGrants...)
	return cloned
}

func (a Account) HasAccessGrant(appID string) bool {
	return containsAppID(a.AccessGrants, appID)
}

func (a *Account) setTokenEntry(authType string, entry OAuthTokenEntry) {
	if a.OAuthTokens == nil {
		a.OAuthTokens = map[string]OAuthTokenEntry{}
	}
	entry.Visibility = normalizeAppIDs(entry.Visibility)
	if entry.Token == "" && len(entry.Visibility) == 0 {
		delete(a.OAuthTokens, authType)
		return
	}
	a.OAuthTokens[authType] = entry
}

func (a Account) tokenVisibleTo(authType string, appID string) bool {
	if appID == a.Owner {
		return true
	}
	entry, ok := a.OAuthTokens[authType]
	if !ok {
		return false
	}
	return containsAppID(entry.Visibility, appID)
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// normalizeAppIDs returns a sorted, de-duplicated copy. App ids are compared
// exactly: case and whitespace are significant.
func normalizeAppIDs(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func containsAppID(values []string, appID string) bool {
	for _, value := range values {
		if value == appID {
			return true
		}
	}
	return false
}

func removeAppID(values []string, appID string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == appID {
			continue
		}
		out = append(out, value)
	}
	return out
}

func sortAccountInfos(infos []AppAccountInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Owner != infos[j].Owner {
			return infos[i].Owner < infos[j].Owner
		}
		return infos[i].Name < infos[j].Name
	})
}

package sqlstore

import "github.com/goliatone/go-appaccount/core"

var (
	_ core.AccountStore           = (*AccountStore)(nil)
	_ core.AppDirectory           = (*AppRegistryStore)(nil)
	_ core.AppRegistrar           = (*AppRegistryStore)(nil)
	_ core.AppDirectory           = (*CachedAppDirectory)(nil)
	_ core.AppRegistrar           = (*CachedAppDirectory)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)

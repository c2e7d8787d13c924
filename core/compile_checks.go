package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ AccountLocker = (*MemoryAccountLocker)(nil)
	_ LockHandle    = (*memoryLockHandle)(nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)

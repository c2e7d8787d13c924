package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxBatchSize      = 1
	defaultLockWaitTimeoutMS = 5000
)

type NotificationsConfig struct {
	// MaxBatchSize caps how many queued changes one listener call receives.
	MaxBatchSize int `koanf:"max_batch_size" mapstructure:"max_batch_size"`
}

type LockingConfig struct {
	WaitTimeoutMS int `koanf:"wait_timeout_ms" mapstructure:"wait_timeout_ms"`
}

type Config struct {
	ServiceName   string              `koanf:"service_name" mapstructure:"service_name"`
	Notifications NotificationsConfig `koanf:"notifications" mapstructure:"notifications"`
	Locking       LockingConfig       `koanf:"locking" mapstructure:"locking"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "appaccount",
		Notifications: NotificationsConfig{
			MaxBatchSize: defaultMaxBatchSize,
		},
		Locking: LockingConfig{
			WaitTimeoutMS: defaultLockWaitTimeoutMS,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Notifications.MaxBatchSize < 1 {
		return fmt.Errorf("core: notifications.max_batch_size must be positive")
	}
	if c.Locking.WaitTimeoutMS < 0 {
		return fmt.Errorf("core: locking.wait_timeout_ms must not be negative")
	}
	return nil
}

func (c Config) lockWaitTimeout() time.Duration {
	return time.Duration(c.Locking.WaitTimeoutMS) * time.Millisecond
}

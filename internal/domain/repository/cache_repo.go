package repository

import (
	"time"
)

// CacheRepository defines cache and lock methods backed by Redis.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Exists(key string) (bool, error)
	// SetNX sets the key only if it does not exist yet; returns true when set.
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}

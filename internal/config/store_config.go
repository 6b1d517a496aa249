package config

type StoreConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetRedisAddr returns "" when no Redis is configured; login limiting then stays in memory.
func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

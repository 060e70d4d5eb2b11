package config

import "time"

const (
	CacheMemory    = "memory"
	CacheMemcached = "memcached"
	CacheRedis     = "redis"
	CacheNone      = "none"
)

type CacheConfig struct {
	BackendName string          `yaml:"backend"`
	TTLSeconds  int64           `yaml:"ttl-seconds"`
	Memcached   MemcachedConfig `yaml:"memcached"`
	Redis       RedisConfig     `yaml:"redis"`
}

func (s *CacheConfig) Backend() string {
	return s.BackendName
}

func (s *CacheConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

type RedisConfig struct {
	Address string `yaml:"address"`
	Pswd    string `yaml:"password"`
	Db      int    `yaml:"db"`
}

func (s *RedisConfig) Addr() string {
	return s.Address
}

func (s *RedisConfig) Password() string {
	return s.Pswd
}

func (s *RedisConfig) DB() int {
	return s.Db
}

package config

import "time"

type HTTPConfig struct {
	Address          string   `yaml:"address"`
	RequestsPerSec   float64  `yaml:"requests-per-second"`
	Burst            int      `yaml:"burst"`
	TimeoutSec       int64    `yaml:"timeout-seconds"`
	AllowedOriginSet []string `yaml:"allowed-origins"`
}

func (s *HTTPConfig) Addr() string {
	return s.Address
}

func (s *HTTPConfig) RateLimit() float64 {
	return s.RequestsPerSec
}

func (s *HTTPConfig) RateBurst() int {
	return s.Burst
}

func (s *HTTPConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

func (s *HTTPConfig) AllowedOrigins() []string {
	return s.AllowedOriginSet
}

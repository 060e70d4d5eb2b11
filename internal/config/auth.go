package config

import "time"

type AuthConfig struct {
	Secret        string `yaml:"jwt-secret"`
	TokenIssuer   string `yaml:"issuer"`
	TokenAudience string `yaml:"audience"`
	TTLMinutes    int64  `yaml:"token-ttl-minutes"`
}

func (s *AuthConfig) SigningKey() []byte {
	return []byte(s.Secret)
}

func (s *AuthConfig) Issuer() string {
	return s.TokenIssuer
}

func (s *AuthConfig) Audience() string {
	return s.TokenAudience
}

func (s *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

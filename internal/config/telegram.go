package config

type TelegramConfig struct {
	ApiToken    string `yaml:"token"`
	MetricsAddr string `yaml:"metrics-address"`
}

func (t *TelegramConfig) Token() string {
	return t.ApiToken
}

// MetricsAddress is where the bot exposes /metrics. Empty disables the listener.
func (t *TelegramConfig) MetricsAddress() string {
	return t.MetricsAddr
}

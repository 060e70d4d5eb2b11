package config

import "time"

type AppConfig struct {
	ServiceName  string `yaml:"service-name"`
	LocationName string `yaml:"location"`
	WarmOnChange bool   `yaml:"warm-cache"`
}

func (s *AppConfig) Name() string {
	return s.ServiceName
}

// Location is the time zone "today" is evaluated in. Unknown names fall back to UTC.
func (s *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.LocationName)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *AppConfig) WarmCache() bool {
	return s.WarmOnChange
}

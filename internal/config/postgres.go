package config

type PostgresConfig struct {
	Hostname    string `yaml:"host"`
	PortNum     int    `yaml:"port"`
	Db          string `yaml:"db"`
	User        string `yaml:"username"`
	Pswd        string `yaml:"password"`
	SSL         string `yaml:"sslmode"`
	MigrateOnUp bool   `yaml:"migrate"`
}

func (s *PostgresConfig) Host() string {
	return s.Hostname
}

func (s *PostgresConfig) Port() int {
	return s.PortNum
}

func (s *PostgresConfig) Database() string {
	return s.Db
}

func (s *PostgresConfig) Username() string {
	return s.User
}

func (s *PostgresConfig) Password() string {
	return s.Pswd
}

func (s *PostgresConfig) SSLMode() string {
	return s.SSL
}

func (s *PostgresConfig) Migrate() bool {
	return s.MigrateOnUp
}

// Enabled reports whether a database is configured at all.
func (s *PostgresConfig) Enabled() bool {
	return s.Db != ""
}

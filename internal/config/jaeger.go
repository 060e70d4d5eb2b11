package config

type JaegerConfig struct {
	AgentHostPort string  `yaml:"agent"`
	SamplerParam  float64 `yaml:"sampler-param"`
}

func (s *JaegerConfig) Agent() string {
	return s.AgentHostPort
}

func (s *JaegerConfig) SamplingRate() float64 {
	return s.SamplerParam
}

func (s *JaegerConfig) Enabled() bool {
	return s.AgentHostPort != ""
}

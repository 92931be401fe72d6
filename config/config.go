package config

type Config struct {
	Listen      string  `yaml:"listen"`
	MetricsPath string  `yaml:"metrics_path"`
	Timeout     float64 `yaml:"timeout"`
	OLT         Device  `yaml:"olt"`
	Bot         Bot     `yaml:"bot"`
}

func DefaultConfig() Config {
	return Config{
		Listen:      ":9776",
		MetricsPath: "/metrics",
		Timeout:     60,
		OLT: Device{
			TokenTTL: 1800,
		},
		Bot: Bot{
			AuthFile: "authuserlist.json",
		},
	}
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig()

	type plain Config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

type Device struct {
	// Address is the base URL of the OLT web interface.
	Address  string `yaml:"address"`
	Family   string `yaml:"family"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// TokenTTL is how long an issued token is assumed valid, in seconds.
	// The OLT gives no expiry signal of its own.
	TokenTTL           float64 `yaml:"token_ttl"`
	InsecureSkipVerify bool    `yaml:"insecure_skip_verify"`
}

type Bot struct {
	Token string `yaml:"token"`
	// Password enrolls new chat users into the whitelist via /password.
	Password string `yaml:"password"`
	AuthFile string `yaml:"auth_file"`
}

package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the central typed configuration struct.
type Config struct {
	App AppConfig `mapstructure:"app"`
	DI  DIConfig  `mapstructure:"di"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // local | production | testing
	Debug bool   `mapstructure:"debug"`
	Port  string `mapstructure:"port"`
}

// DIConfig configures the container.
type DIConfig struct {
	// IgnoreRedundantArgs drops arguments passed to already-produced
	// once-entries instead of failing.
	IgnoreRedundantArgs bool `mapstructure:"ignore_redundant_args"`
	// ConstantsFile is a YAML mapping registered as constants at boot.
	ConstantsFile string `mapstructure:"constants_file"`
	// ConstantsPrefix is prepended to every key of ConstantsFile.
	ConstantsPrefix string `mapstructure:"constants_prefix"`
}

// FileName is the config file looked up in the working directory, without
// extension.
const FileName = "simpledi"

// Load reads .env files (if present), then the optional simpledi.yaml, then
// the environment. Environment variables win: APP_PORT overrides app.port.
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	v := viper.New()
	v.SetDefault("app.name", "SimpleDI")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.port", "8000")
	v.SetDefault("di.ignore_redundant_args", false)
	v.SetDefault("di.constants_file", "")
	v.SetDefault("di.constants_prefix", "")

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// app.port ← APP_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return &cfg, nil
}

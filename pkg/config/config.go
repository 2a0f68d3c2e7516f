package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	envPrefix = "BLOCKER"
)

type Config struct {
	Env string `validate:"oneof=development production"`

	Solve SolveConfig
	Log   LogConfig
}

type SolveConfig struct {
	Speed         int    `validate:"min=1"`
	Attempts      int    `validate:"min=1"`
	MaxSpread     int    `validate:"min=0"`
	Seed          uint64 // 0 draws a fresh seed per run
	Strategy      string `validate:"oneof=sampled exact"`
	Solver        string `validate:"oneof=gophersat kissat"`
	KissatPath    string
	FreePeriods   bool
	StrictBalance bool
	Timeout       time.Duration `validate:"min=0"` // 0 disables the timeout
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// flagKeys binds command-line flags to configuration keys
var flagKeys = map[string]string{
	"speed":        "SPEED",
	"attempts":     "ATTEMPTS",
	"max-spread":   "MAX_SPREAD",
	"seed":         "SEED",
	"strategy":     "STRATEGY",
	"solver":       "SOLVER",
	"kissat-path":  "KISSAT_PATH",
	"free-periods": "FREE_PERIODS",
	"strict":       "STRICT_BALANCE",
	"timeout":      "TIMEOUT",
	"log-level":    "LOG_LEVEL",
	"log-format":   "LOG_FORMAT",
}

// Load reads the configuration from (highest priority first) changed flags, BLOCKER_* environment variables
// (a .env file is loaded into the environment), the optional configFile and the defaults
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot read configuration file")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal, "cannot bind flag "+name)
				}
			}
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Solve = SolveConfig{
		Speed:         v.GetInt("SPEED"),
		Attempts:      v.GetInt("ATTEMPTS"),
		MaxSpread:     v.GetInt("MAX_SPREAD"),
		Seed:          v.GetUint64("SEED"),
		Strategy:      strings.ToLower(v.GetString("STRATEGY")),
		Solver:        strings.ToLower(v.GetString("SOLVER")),
		KissatPath:    v.GetString("KISSAT_PATH"),
		FreePeriods:   v.GetBool("FREE_PERIODS"),
		StrictBalance: v.GetBool("STRICT_BALANCE"),
		Timeout:       v.GetDuration("TIMEOUT"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
		Format: strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput, "invalid configuration")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("SPEED", 23)
	v.SetDefault("ATTEMPTS", 20)
	v.SetDefault("MAX_SPREAD", 2)
	v.SetDefault("SEED", 0)
	v.SetDefault("STRATEGY", "sampled")
	v.SetDefault("SOLVER", "gophersat")
	v.SetDefault("KISSAT_PATH", "kissat")
	v.SetDefault("FREE_PERIODS", true)
	v.SetDefault("STRICT_BALANCE", false)
	v.SetDefault("TIMEOUT", "0s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

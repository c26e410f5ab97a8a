package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls" validate:"required,min=1,dive,required"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string        `mapstructure:"mode" validate:"oneof=debug release test"`
	Port       int           `mapstructure:"port" validate:"min=1,max=65535"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit" validate:"gt=0"`
	PingPeriod time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	PongWait   time.Duration `mapstructure:"pong_wait" validate:"gtfield=PingPeriod"`
	WriteWait  time.Duration `mapstructure:"write_wait" validate:"gt=0"`
	SendQueue  int           `mapstructure:"send_queue" validate:"min=1"`
	Secret     string        `mapstructure:"secret" validate:"required"`
	AdminToken string        `mapstructure:"admin_token"`
	LogLevel   string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`

	CORSOrigins []string    `mapstructure:"cors_origins"`
	ICEServers  []ICEServer `mapstructure:"ice_servers" validate:"dive"`

	MaxChatLen         int     `mapstructure:"max_chat_len" validate:"min=1"`
	RateLimit          float64 `mapstructure:"rate_limit" validate:"min=0"`
	RateBurst          int     `mapstructure:"rate_burst" validate:"min=0"`
	BackpressurePolicy string  `mapstructure:"backpressure_policy" validate:"oneof=drop kick"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) on top of defaults.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile is Load with an explicit path. A missing file is not an error;
// HUDDLE_* environment variables override both file and defaults.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("huddle")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("backpressure", cfg.BackpressurePolicy).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "25s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_queue", 64)
	v.SetDefault("secret", "huddle-dev-secret")
	v.SetDefault("admin_token", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("max_chat_len", 2000)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_burst", 0)
	v.SetDefault("backpressure_policy", "drop")
}

package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel       string `yaml:"log-level" env-default:"info"`
	HTTPPort       string `yaml:"http-port" env-default:"9090"`
	SocketPort     string `yaml:"socket-port" env-default:"8080"`
	Redis          Redis  `yaml:"redis"`
	DictionaryPath string `yaml:"dictionary-path" env-default:""`
	Game           Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Game holds the defaults applied when a match config omits a field.
type Game struct {
	RoundTimeLimit   int    `yaml:"round-time-limit" env-default:"45"`
	TotalRounds      int    `yaml:"total-rounds" env-default:"5"`
	BotCount         int    `yaml:"bot-count" env-default:"1"`
	Difficulty       string `yaml:"difficulty" env-default:"easy"`
	SoundEnabled     bool   `yaml:"sound-enabled" env-default:"true"`
	VibrationEnabled bool   `yaml:"vibration-enabled" env-default:"true"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

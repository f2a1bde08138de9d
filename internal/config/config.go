package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Broker  BrokerConfig
	Agent   Options
	Runtime RuntimeConfig
}

type BrokerConfig struct {
	BaseUrl   string
	StreamUrl string
	ApiKey    string
	Secret    string
	Paper     bool
}

type RuntimeConfig struct {
	ListenAddr   string
	RegistryPath string
	Log          LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {

	cfg := &Config{}
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.ReadInConfig()

	cfg.Broker = BrokerConfig{
		BaseUrl:   viper.GetString("broker.base_url"),
		StreamUrl: viper.GetString("broker.stream_url"),
		ApiKey:    envSub("broker.api_key"),
		Secret:    envSub("broker.secret"),
		Paper:     viper.GetBool("broker.paper"),
	}

	opts, err := OptionsFromMap(viper.GetStringMap("agent"))
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(cfg.Broker.Paper); err != nil {
		return nil, err
	}
	cfg.Agent = opts

	cfg.Runtime = RuntimeConfig{
		ListenAddr:   viper.GetString("runtime.listen_addr"),
		RegistryPath: viper.GetString("runtime.registry_path"),
		Log: LogConfig{
			Level:      viper.GetString("runtime.log.level"),
			Format:     viper.GetString("runtime.log.format"),
			File:       viper.GetString("runtime.log.file"),
			MaxSize:    viper.GetInt("runtime.log.max_size"),
			MaxBackups: viper.GetInt("runtime.log.max_backups"),
			MaxAge:     viper.GetInt("runtime.log.max_age"),
			Compress:   viper.GetBool("runtime.log.compress"),
		},
	}

	if cfg.Runtime.ListenAddr == "" {
		cfg.Runtime.ListenAddr = ":8090"
	}
	if cfg.Runtime.RegistryPath == "" {
		cfg.Runtime.RegistryPath = "data/registry.db"
	}

	return cfg, nil
}

func envSub(key string) string {
	val := viper.GetString(key)
	if val == "" {
		return ""
	}

	re := regexp.MustCompile(`\$\{(\w+)\}`)
	return re.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}

package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// DataConfig 平面文件存储位置
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	// EncryptionKey 非空时备份快照用 AES-GCM 加密
	EncryptionKey string `mapstructure:"encryption_key"`
}

// AuditConfig 操作日志（SQLite）
type AuditConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

type NotifyConfig struct {
	// ReminderIntervalSec 提醒轮询间隔（秒），0 表示用默认 60 秒
	ReminderIntervalSec int `mapstructure:"reminder_interval_sec"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Report   ReportConfig   `mapstructure:"report"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. FT_SERVER_PORT=9000
		v.SetEnvPrefix("FT")
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

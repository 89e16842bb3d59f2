package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	ServerPort        string `mapstructure:"server_port"`
	TesseractDataPath string `mapstructure:"tessdata_prefix"`
	OCRLanguage       string `mapstructure:"ocr_language"`
	RenderDPI         int    `mapstructure:"render_dpi"`
	WorkspaceDir      string `mapstructure:"workspace_dir"`
	MaxFileSize       int64  `mapstructure:"max_file_size"`
}

// LoadConfig reads configuration from config.yaml (if present) and
// WATERBILL_-prefixed environment variables, with working defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_port", "5008")
	v.SetDefault("tessdata_prefix", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("ocr_language", "eng")
	v.SetDefault("render_dpi", 300)
	v.SetDefault("workspace_dir", "./data")
	v.SetDefault("max_file_size", 32<<20) // 32 MB

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WATERBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env and defaults carry the rest.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

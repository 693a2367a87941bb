package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Pointer
// fields tell "absent" apart from "empty" so a file only overrides what it
// mentions.
type FileConfig struct {
	StoreBackend     *string         `json:"store_backend" yaml:"store_backend"`
	DatabasePath     *string         `json:"database_path" yaml:"database_path"`
	RedisAddr        *string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPrefix      *string         `json:"redis_prefix" yaml:"redis_prefix"`
	LogFormat        *string         `json:"log_format" yaml:"log_format"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	OperationTimeout *timex.Duration `json:"operation_timeout" yaml:"operation_timeout"`
}

// parseFile overlays cfg with values from the file named by -c/-config.
// Without the flag it does nothing. Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.StoreBackend, fc.StoreBackend)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPrefix, fc.RedisPrefix)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.OperationTimeout != nil {
		cfg.OperationTimeout = fc.OperationTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Dataset DatasetConfig
	Core    CoreConfig
	Columns ColumnsConfig
	Export  ExportConfig
	Server  ServerConfig
}

// DatasetConfig selects the data source and its staleness window.
type DatasetConfig struct {
	Path       string        // CSV file; used unless SQLitePath is set
	SQLitePath string        `mapstructure:"sqlite_path"` // sqlite database file (optional)
	Table      string        // table name when loading from sqlite
	Staleness  time.Duration // reload interval; 0 = never reload
}

// CoreConfig tunes the engine's bucketing, ordering, and toggle fields.
type CoreConfig struct {
	CutoffYear   int      `mapstructure:"cutoff_year"`
	RankKeywords []string `mapstructure:"rank_keywords"` // business branch display order
	TargetMarker string   `mapstructure:"target_marker"` // substring marking target-flagged rows
	FlagColumn   string   `mapstructure:"flag_column"`   // delinquency flag source column
	ArrearsCol   string   `mapstructure:"arrears_col"`   // arrears source column
}

// ColumnsConfig maps the locale-specific source columns to core fields.
type ColumnsConfig struct {
	HQ        string
	Branch    string
	Account   string
	EventDate string `mapstructure:"event_date"`
	Amount    string
}

// ExportConfig gates the CSV download.
type ExportConfig struct {
	Secret string // empty = export open
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// Load reads configuration from file and env. Env overrides use the TESSERA_
// prefix, e.g. TESSERA_DATASET_PATH.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("dataset.path", "data.csv")
	v.SetDefault("dataset.sqlite_path", "")
	v.SetDefault("dataset.table", "contracts")
	v.SetDefault("dataset.staleness", "5m")
	v.SetDefault("core.cutoff_year", 2025)
	v.SetDefault("core.rank_keywords", []string{})
	v.SetDefault("core.target_marker", "대상")
	v.SetDefault("core.flag_column", "부실여부(체납제외)")
	v.SetDefault("core.arrears_col", "체납")
	v.SetDefault("columns.hq", "본부")
	v.SetDefault("columns.branch", "지사")
	v.SetDefault("columns.account", "상호")
	v.SetDefault("columns.event_date", "이벤트시작일")
	v.SetDefault("columns.amount", "청구금액")
	v.SetDefault("export.secret", "")
	v.SetDefault("server.addr", ":8489")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TESSERA_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tessera"))
		v.AddConfigPath(".")
		v.SetConfigName("tessera")
	}

	v.SetEnvPrefix("TESSERA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	c.Dataset.Staleness = v.GetDuration("dataset.staleness")
	return c, nil
}

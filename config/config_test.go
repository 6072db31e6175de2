package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TESSERA_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "data.csv", cfg.Dataset.Path)
	require.Equal(t, 5*time.Minute, cfg.Dataset.Staleness)
	require.Equal(t, 2025, cfg.Core.CutoffYear)
	require.Equal(t, "본부", cfg.Columns.HQ)
	require.Equal(t, "이벤트시작일", cfg.Columns.EventDate)
	require.Equal(t, "부실여부(체납제외)", cfg.Core.FlagColumn)
	require.Empty(t, cfg.Export.Secret)
	require.Equal(t, ":8489", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TESSERA_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("TESSERA_DATASET_PATH", "/srv/contracts.csv")
	t.Setenv("TESSERA_CORE_CUTOFF_YEAR", "2026")
	t.Setenv("TESSERA_EXPORT_SECRET", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/srv/contracts.csv", cfg.Dataset.Path)
	require.Equal(t, 2026, cfg.Core.CutoffYear)
	require.Equal(t, "hunter2", cfg.Export.Secret)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tessera.toml")
	content := `
[dataset]
path = "/data/contracts.csv"
staleness = "30s"

[core]
cutoff_year = 2024
rank_keywords = ["서울", "경기", "부산"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TESSERA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/data/contracts.csv", cfg.Dataset.Path)
	require.Equal(t, 30*time.Second, cfg.Dataset.Staleness)
	require.Equal(t, 2024, cfg.Core.CutoffYear)
	require.Equal(t, []string{"서울", "경기", "부산"}, cfg.Core.RankKeywords)
	// untouched keys keep their defaults
	require.Equal(t, "지사", cfg.Columns.Branch)
}

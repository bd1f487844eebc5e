package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "catalog.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 20, cfg.Scrape.MaxPages)
	assert.Equal(t, 10, cfg.Scrape.PageSize)
	assert.Equal(t, 2, cfg.Scrape.ProductType)
	assert.Equal(t, 3, cfg.Scrape.DelaySecs)
	assert.Equal(t, 3, cfg.Recommend.TopN)
	assert.Equal(t, "courses.csv", cfg.Recommend.Dataset)
	assert.Equal(t, "output", cfg.Export.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
scrape:
  max_pages: 5
  delay_secs: 1
recommend:
  top_n: 10
log:
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scrape.MaxPages)
	assert.Equal(t, 1, cfg.Scrape.DelaySecs)
	assert.Equal(t, 10, cfg.Recommend.TopN)
	assert.Equal(t, "console", cfg.Log.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Scrape.PageSize)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate_Publish(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("publish"))

	cfg.Publish.Host = "ftp.example.com:21"
	assert.Error(t, cfg.Validate("publish"))

	cfg.Publish.User = "catalog"
	assert.NoError(t, cfg.Validate("publish"))
}

func TestValidate_Store(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "mysql", DatabaseURL: "x"}}
	assert.Error(t, cfg.Validate("store"))

	cfg.Store.Driver = "sqlite"
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.DatabaseURL = ""
	assert.Error(t, cfg.Validate("store"))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

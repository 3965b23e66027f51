package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8084", cfg.Address())
	assert.Equal(t, "sample_df.zip", cfg.Dataset.Path)
	assert.Equal(t, "Decathlon.ph", cfg.Dashboard.OnlineBranch)
	assert.Equal(t, "Non Members", cfg.Dashboard.NonMemberID)
	assert.Equal(t, 5, cfg.Dashboard.TopN)
	assert.Equal(t, 60*time.Second, cfg.Dataset.LoadTimeout)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATASET_PATH", "s3://bucket/sales.zip")
	t.Setenv("DASHBOARD_TOP_N", "10")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3://bucket/sales.zip", cfg.Dataset.Path)
	assert.Equal(t, 10, cfg.Dashboard.TopN)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATASET_PATH=from-dotenv.csv\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("DATASET_PATH", "")
	os.Unsetenv("DATASET_PATH")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.Dataset.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"zero top n", "DASHBOARD_TOP_N", "0"},
		{"negative burst", "SECURITY_RATE_LIMIT_BURST", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadPresentation_Default(t *testing.T) {
	p, err := LoadPresentation("")
	require.NoError(t, err)

	assert.Equal(t, LayoutWide, p.Layout)
	assert.Equal(t, Figure{Width: 1000, Height: 488}, p.FigureFor("avg-basket-value"))
	assert.Equal(t, Figure{Width: 1000, Height: 490}, p.FigureFor("avg-basket-size"))
	assert.Equal(t, Figure{Width: 1000, Height: 500}, p.FigureFor("unknown"))
}

func TestLoadPresentation_Formats(t *testing.T) {
	files := map[string]string{
		"p.yaml": "title: Branch Report\nfigures:\n  total-sales:\n    width: 800\n    height: 400\ntime_of_day_order: [\"9 AM-10 AM\", \"10 AM-11 AM\"]\n",
		"p.toml": "title = \"Branch Report\"\ntime_of_day_order = [\"9 AM-10 AM\", \"10 AM-11 AM\"]\n\n[figures.total-sales]\nwidth = 800\nheight = 400\n",
		"p.json": `{"title":"Branch Report","figures":{"total-sales":{"width":800,"height":400}},"time_of_day_order":["9 AM-10 AM","10 AM-11 AM"]}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			p, err := LoadPresentation(path)
			require.NoError(t, err)

			assert.Equal(t, "Branch Report", p.Title)
			assert.Equal(t, LayoutWide, p.Layout)
			assert.Equal(t, Figure{Width: 800, Height: 400}, p.FigureFor("total-sales"))
			assert.Equal(t, Figure{Width: 1000, Height: 488}, p.FigureFor("avg-basket-value"))
			assert.Equal(t, []string{"9 AM-10 AM", "10 AM-11 AM"}, p.TimeOfDayOrder)
		})
	}
}

func TestLoadPresentation_Errors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "p.ini")
	require.NoError(t, os.WriteFile(unsupported, []byte("x=1"), 0o644))

	badLayout := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(badLayout, []byte("layout: tiny\n"), 0o644))

	badFigure := filepath.Join(dir, "figure.json")
	require.NoError(t, os.WriteFile(badFigure, []byte(`{"figures":{"top-models":{"width":0,"height":10}}}`), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), dir, unsupported, badLayout, badFigure} {
		_, err := LoadPresentation(path)
		assert.Error(t, err, path)
	}
}

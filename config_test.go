package calllog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Sites, cfg.Sites)
}

func TestLoadConfigOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calllog.yaml")
	yml := `
sites: [札幌, 東京]
business_hours:
  start: "09:00"
  end: "18:00:30"
font: Meiryo
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"札幌", "東京"}, cfg.Sites)
	assert.Equal(t, NewClock(9, 0, 0), cfg.BusinessHours.Start)
	assert.Equal(t, NewClock(18, 0, 30), cfg.BusinessHours.End)
	assert.Equal(t, "Meiryo", cfg.Font)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultConfig().ExcludeKeywords, cfg.ExcludeKeywords)
	assert.Equal(t, 8.0, cfg.StandardHours)
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"bad clock":      "business_hours:\n  start: noon\n",
		"reversed hours": "business_hours:\n  start: \"18:00\"\n  end: \"09:00\"\n",
		"not yaml":       "sites: [unterminated\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "calllog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSortSites(t *testing.T) {
	cfg := &Config{Sites: []string{"東京", "横浜"}}
	got := cfg.SortSites("札幌", "横浜", "", "金沢", "札幌")
	assert.Equal(t, []string{"東京", "横浜", "札幌", "金沢"}, got)
	// the configured order is not modified
	assert.Equal(t, []string{"東京", "横浜"}, cfg.Sites)

	assert.Equal(t, 0, cfg.siteRank("東京"))
	assert.Equal(t, 2, cfg.siteRank("札幌"))
}

func TestOrderDesk(t *testing.T) {
	cfg := &Config{OrderDesk: []string{"【横浜】奥秋素子", "[岡山]伊藤優", "未設定"}}
	desk := cfg.orderDesk()
	assert.Len(t, desk, 2)
	assert.True(t, desk[siteName{"横浜", "奥秋素子"}])
	assert.True(t, desk[siteName{"岡山", "伊藤優"}])
}

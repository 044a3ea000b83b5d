package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTag(t *testing.T) {
	cases := []struct {
		in         string
		site, name string
	}{
		{"[東京]田中", "東京", "田中"},
		{"【横浜】 奥秋素子 ", "横浜", "奥秋素子"},
		{"[ 大阪 ]", "大阪", ""},
		{"不在", "", "不在"},
		{"", "", ""},
		{"代表[仙台]阿部", "仙台", "阿部"},
	}
	for _, tc := range cases {
		site, name := SplitTag(tc.in)
		assert.Equal(t, tc.site, site, tc.in)
		assert.Equal(t, tc.name, name, tc.in)
	}
}

func TestAnswered(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		want bool
	}{
		{"田中", true},
		{"不在", false},
		{"未応答(転送)", false},
		{"留守電センター", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cfg.Answered(tc.name), tc.name)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "玉腰千恵", NormalizeName("玉腰　千恵"))
	assert.Equal(t, "河原由布子", NormalizeName(" 河原 由布子\t"))
}

package calllog

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in, one, two float64
	}{
		{1.25, 1.3, 1.25},
		{1.24, 1.2, 1.24},
		{0.05, 0.1, 0.05},
		{8 / 6.25, 1.3, 1.28},
		{8 / 5.75, 1.4, 1.39},
		{2, 2, 2},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.one, Round1(tc.in), 1e-9, "Round1(%v)", tc.in)
		assert.InDelta(t, tc.two, Round2(tc.in), 1e-9, "Round2(%v)", tc.in)
	}
}

func TestRoundValue(t *testing.T) {
	assert.Equal(t, "", RoundValue(nil))
	assert.Equal(t, "", RoundValue(math.NaN()))
	assert.Equal(t, "", RoundValue("abc"))
	assert.Equal(t, 1.3, RoundValue(1.25))
	assert.Equal(t, 3.0, RoundValue(int64(3)))
	assert.Equal(t, 2.5, RoundValue("2.46"))
}

func TestParseValue(t *testing.T) {
	assert.Nil(t, ParseValue(""))
	assert.Equal(t, int64(42), ParseValue("42"))
	assert.Equal(t, 4.5, ParseValue("4.5"))
	assert.Equal(t, "【東京】田中", ParseValue("【東京】田中"))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 12, 1, 9, 30, 15, 0, time.Local)
	cases := []any{
		"2025-12-01 09:30:15",
		"2025/12/01 09:30:15",
		"2025/12/1 9:30:15",
		want,
	}
	for _, in := range cases {
		got, ok := ParseTimestamp(in)
		assert.True(t, ok, "%v", in)
		assert.True(t, want.Equal(got), "%v: got %v", in, got)
	}

	// Excel serial for 2025-12-01 12:00:00
	got, ok := ParseTimestamp(45992.5)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 12, 1, 12, 0, 0, 0, time.Local), got)

	_, ok = ParseTimestamp("not a time")
	assert.False(t, ok)
	_, ok = ParseTimestamp(nil)
	assert.False(t, ok)
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{int64(90), 90, true},
		{12.5, 12.5, true},
		{"75", 75, true},
		{"1:05", 65, true},
		{"0:01:05", 65, true},
		{"1:02:03", 3723, true},
		{"abc", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseDuration(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestClock(t *testing.T) {
	c, err := ParseClock("08:45")
	assert.NoError(t, err)
	assert.Equal(t, NewClock(8, 45, 0), c)
	assert.Equal(t, "08:45:00", c.String())

	_, err = ParseClock("8h45")
	assert.Error(t, err)

	bh := DefaultConfig().BusinessHours
	assert.True(t, bh.Contains(NewClock(8, 45, 0)))
	assert.True(t, bh.Contains(NewClock(17, 45, 0)))
	assert.False(t, bh.Contains(NewClock(17, 45, 1)))
	assert.False(t, bh.Contains(NewClock(8, 44, 59)))
}

package calllog

import (
	"time"
)

// Column names of the phone-system exports.
const (
	ColTime     = "時刻"
	ColCallee   = "着信者"
	ColFinal    = "最終着信者"
	ColDuration = "通話時間"
)

// Call is one phone event reduced to what the reports need.
type Call struct {
	Time    time.Time
	HasTime bool

	// TargetSite is the site the call was dialled into.
	TargetSite string
	// FinalSite and FinalName identify who ultimately took the call.
	FinalSite string
	FinalName string

	// Duration in seconds.
	Duration float64
	Answered bool
}

// Calls converts a call-log table into classified calls, one per row.
func (c *Config) Calls(t *Table) []Call {
	if t == nil {
		return nil
	}
	calls := make([]Call, t.Len())
	for i := range calls {
		call := &calls[i]
		if s, ok := t.Get(i, ColCallee).(string); ok {
			call.TargetSite, _ = SplitTag(s)
		}
		if s, ok := t.Get(i, ColFinal).(string); ok {
			call.FinalSite, call.FinalName = SplitTag(s)
		}
		call.Time, call.HasTime = ParseTimestamp(t.Get(i, ColTime))
		call.Duration, _ = ParseDuration(t.Get(i, ColDuration))
		call.Answered = c.Answered(call.FinalName)
	}
	return calls
}

// InBusinessHours reports whether the call has a timestamp inside the
// configured window.
func (c *Config) InBusinessHours(call Call) bool {
	return call.HasTime && c.BusinessHours.Contains(ClockOf(call.Time))
}

func countBy(calls []Call, key func(Call) string, keep func(Call) bool) map[string]int64 {
	counts := make(map[string]int64)
	for _, call := range calls {
		if keep != nil && !keep(call) {
			continue
		}
		if k := key(call); k != "" {
			counts[k]++
		}
	}
	return counts
}

func byTarget(c Call) string { return c.TargetSite }
func byFinal(c Call) string  { return c.FinalSite }
func answered(c Call) bool   { return c.Answered }

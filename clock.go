package calllog

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Clock is a time of day in seconds after midnight.
type Clock int

func NewClock(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)/60%60, int(c)%60)
}

func (c *Clock) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseClock(node.Value)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Clock) MarshalYAML() (any, error) {
	return c.String(), nil
}

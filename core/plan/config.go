package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/prepsched/prepsched/core/model"
)

// WindowConfig configures the daily working window using "HH:MM" clock
// strings. Weekend days may carry their own window; leaving the weekend
// fields empty excludes weekends entirely.
type WindowConfig struct {
	WeekdayStart string   `json:"weekday_start"`
	WeekdayEnd   string   `json:"weekday_end"`
	WeekendStart string   `json:"weekend_start"`
	WeekendEnd   string   `json:"weekend_end"`
	ExcludedDays []string `json:"excluded_days"`
}

// Config defines planner settings loaded from configuration.
type Config struct {
	TargetHours        float64      `json:"target_hours"`
	MinBlockHours      float64      `json:"min_block_hours"`
	MaxBlockHours      float64      `json:"max_block_hours"`
	DailyCapHours      float64      `json:"daily_cap_hours"`
	BufferMinutes      int          `json:"buffer_minutes"`
	GranularityMinutes int          `json:"granularity_minutes"`
	HorizonDays        int          `json:"horizon_days"`
	Window             WindowConfig `json:"window"`
	LPFirst            bool         `json:"lp_first"`
	LPTimeLimitMs      int          `json:"lp_time_limit_ms"`
}

// SetDefaults applies the product defaults: 40 target hours, 1-3h
// blocks, 6h daily cap, 1h buffer, 30min granularity, two-week horizon.
func (c *Config) SetDefaults() {
	if c.TargetHours == 0 {
		c.TargetHours = 40
	}
	if c.MinBlockHours == 0 {
		c.MinBlockHours = 1
	}
	if c.MaxBlockHours == 0 {
		c.MaxBlockHours = 3
	}
	if c.DailyCapHours == 0 {
		c.DailyCapHours = 6
	}
	if c.BufferMinutes == 0 {
		c.BufferMinutes = 60
	}
	if c.GranularityMinutes == 0 {
		c.GranularityMinutes = 30
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = 14
	}
	if c.Window.WeekdayStart == "" {
		c.Window.WeekdayStart = "09:00"
	}
	if c.Window.WeekdayEnd == "" {
		c.Window.WeekdayEnd = "21:00"
	}
	if c.LPTimeLimitMs == 0 {
		c.LPTimeLimitMs = 5000
	}
}

// Validate checks the clock strings and numeric bounds.
func (c Config) Validate() error {
	if _, err := c.workingWindow(); err != nil {
		return err
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive")
	}
	pol, err := c.Policy(time.Now(), time.Time{})
	if err != nil {
		return err
	}
	return pol.Validate()
}

// Policy materializes an AllocationPolicy for a request starting now and
// preparing for eventStart. The horizon is clipped at the event start.
func (c Config) Policy(now, eventStart time.Time) (model.AllocationPolicy, error) {
	window, err := c.workingWindow()
	if err != nil {
		return model.AllocationPolicy{}, err
	}
	horizonEnd := now.AddDate(0, 0, c.HorizonDays)
	if !eventStart.IsZero() && eventStart.Before(horizonEnd) {
		horizonEnd = eventStart
	}
	return model.AllocationPolicy{
		TargetHours:   c.TargetHours,
		MinBlockHours: c.MinBlockHours,
		MaxBlockHours: c.MaxBlockHours,
		DailyCapHours: c.DailyCapHours,
		BufferBefore:  time.Duration(c.BufferMinutes) * time.Minute,
		Granularity:   time.Duration(c.GranularityMinutes) * time.Minute,
		WorkingWindow: window,
		HorizonStart:  now,
		HorizonEnd:    horizonEnd,
		EventStart:    eventStart,
	}, nil
}

// TimeLimit returns the LP solve budget.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.LPTimeLimitMs) * time.Millisecond
}

func (c Config) workingWindow() (model.WorkingWindow, error) {
	weekday, err := parseClockRange(c.Window.WeekdayStart, c.Window.WeekdayEnd)
	if err != nil {
		return model.WorkingWindow{}, fmt.Errorf("weekday window: %w", err)
	}
	var weekend model.ClockRange
	if c.Window.WeekendStart != "" || c.Window.WeekendEnd != "" {
		weekend, err = parseClockRange(c.Window.WeekendStart, c.Window.WeekendEnd)
		if err != nil {
			return model.WorkingWindow{}, fmt.Errorf("weekend window: %w", err)
		}
	}
	excluded := make(map[time.Weekday]bool, len(c.Window.ExcludedDays))
	for _, name := range c.Window.ExcludedDays {
		wd, err := parseWeekday(name)
		if err != nil {
			return model.WorkingWindow{}, err
		}
		excluded[wd] = true
	}
	return model.WorkingWindow{Weekday: weekday, Weekend: weekend, Excluded: excluded}, nil
}

func parseClockRange(start, end string) (model.ClockRange, error) {
	s, err := parseClock(start)
	if err != nil {
		return model.ClockRange{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return model.ClockRange{}, err
	}
	if e <= s {
		return model.ClockRange{}, fmt.Errorf("window end %s not after start %s", end, start)
	}
	return model.ClockRange{Start: s, End: e}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

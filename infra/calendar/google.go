// Package calendar fetches busy intervals from Google Calendar and
// converts the loosely-typed event payloads into the strict core value
// types at the boundary.
package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/prepsched/prepsched/core/model"
	"github.com/prepsched/prepsched/infra/logger"
)

// Config defines the calendar connection settings.
type Config struct {
	// CredentialsFile points at a Google service-account or OAuth
	// credentials JSON file.
	CredentialsFile string `json:"credentials_file"`
	// CalendarIDs lists the calendars whose events count as busy time.
	// Empty defaults to the primary calendar.
	CalendarIDs []string `json:"calendar_ids"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if len(c.CalendarIDs) == 0 {
		c.CalendarIDs = []string{"primary"}
	}
}

// GoogleSource reads busy intervals from the Google Calendar API.
type GoogleSource struct {
	svc *gcal.Service
	ids []string
	log logger.Logger
}

// NewGoogleSource builds a source from the configuration.
func NewGoogleSource(ctx context.Context, cfg Config) (*GoogleSource, error) {
	cfg.SetDefaults()
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return &GoogleSource{svc: svc, ids: cfg.CalendarIDs, log: logger.New("calendar")}, nil
}

// BusyIntervals fetches every event in [from, to) across the configured
// calendars and returns their intervals. Recurring events are expanded
// by the API; events without usable times are skipped with a warning.
func (s *GoogleSource) BusyIntervals(ctx context.Context, from, to time.Time) ([]model.TimeInterval, error) {
	var out []model.TimeInterval
	for _, id := range s.ids {
		call := s.svc.Events.List(id).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			Context(ctx)
		err := call.Pages(ctx, func(page *gcal.Events) error {
			for _, ev := range page.Items {
				iv, ok, err := EventInterval(ev)
				if err != nil {
					s.log.Warnf("calendar %s event %s: %v", id, ev.Id, err)
					continue
				}
				if ok {
					out = append(out, iv)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list events for %s: %w", id, err)
		}
	}
	return out, nil
}

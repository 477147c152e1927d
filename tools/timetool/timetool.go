// Package timetool provides the current time for a named time zone.
package timetool

import (
	"context"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for minimal images

	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/values"
)

const (
	// ToolName is the name of the time tool.
	ToolName = "Time Tool"
	// Layout renders the date, time, zone abbreviation and numeric offset.
	Layout = "2006-01-02 15:04:05 MST-0700"
)

// Tool returns the current time in a given time zone.
type Tool struct {
	clock       func() time.Time
	defaultZone string
}

var _ tools.ITool = (*Tool)(nil)

// Option configures the tool.
type Option func(*Tool)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(t *Tool) {
		t.clock = clock
	}
}

// WithDefaultZone sets the zone used when no argument is given,
// by default the local zone is used.
func WithDefaultZone(zone string) Option {
	return func(t *Tool) {
		t.defaultZone = zone
	}
}

// New returns the time tool.
func New(opts ...Option) *Tool {
	t := &Tool{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Provides current time for a given timezone (e.g., Europe/London, America/New_York)"
}

// Call returns the current time in the zone named by the first argument.
func (t *Tool) Call(_ context.Context, args []string) (string, error) {
	zone := t.defaultZone
	if len(args) > 0 {
		zone = values.StringsCoalesce(strings.TrimSpace(args[0]), t.defaultZone)
	}

	loc := time.Local
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return "", tools.WrapExecutionError(err, "invalid timezone "+zone)
		}
	}

	return "The current time is " + t.clock().In(loc).Format(Layout) + ".", nil
}

package chatmodel

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source identifies who produced a conversation entry.
type Source string

const (
	// SourceUser is an entry typed by the user.
	SourceUser Source = "user"
	// SourceAgent is a final answer produced by the agent.
	SourceAgent Source = "agent"
)

// ErrInvalidSource is returned when a source label is not recognized.
var ErrInvalidSource = errors.New("invalid source")

var titleCaser = cases.Title(language.Und)

// Label returns the capitalized source label used in the prompt context,
// e.g. "User" or "Agent".
func (s Source) Label() string {
	return titleCaser.String(string(s))
}

func (s Source) String() string {
	return string(s)
}

// ParseSource parses a source label, case-insensitive.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceUser:
		return SourceUser, nil
	case SourceAgent:
		return SourceAgent, nil
	}
	return "", errors.Wrapf(ErrInvalidSource, "%q", s)
}

// UnmarshalText parses the source label, so decoded entries
// carry a known source only.
func (s *Source) UnmarshalText(text []byte) error {
	v, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Entry is a single immutable record of the conversation log.
type Entry struct {
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Source    Source    `json:"source" yaml:"source"`
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(content string, source Source) Entry {
	return Entry{
		Content:   content,
		Timestamp: TimeNowFn(),
		Source:    source,
	}
}

// TimeNowFn is the clock used to stamp new entries.
var TimeNowFn = time.Now

// String returns the entry rendered as "<Source>: <content>".
func (e Entry) String() string {
	return e.Source.Label() + ": " + e.Content
}

// FormatContext renders entries in chronological order,
// one "<Source>: <content>" line per entry.
func FormatContext(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.String())
	}
	return b.String()
}

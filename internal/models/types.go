// Package models defines the journal entities shared by the local store,
// the mapper and the sync engine.
package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Millis is an instant stored as integer milliseconds since the Unix epoch.
// Local records keep every timestamp in this form.
type Millis int64

// MillisOf converts t to Millis, truncating below millisecond precision.
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time returns the instant as a UTC time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

// DateLayout is the textual form of Date, both locally and remotely.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Scan implements sql.Scanner for TEXT columns.
func (d *Date) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidDate, src)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// EntityType names one of the synchronized record kinds.
type EntityType string

const (
	EntityUser         EntityType = "user"
	EntityChild        EntityType = "child"
	EntityDiary        EntityType = "diary"
	EntityMedia        EntityType = "media"
	EntityGrowthRecord EntityType = "growth_record"
	EntityEvent        EntityType = "event"
	EntityMilestone    EntityType = "milestone"
)

// ChildScoped lists the entity types that reference exactly one Child.
var ChildScoped = []EntityType{
	EntityDiary,
	EntityMedia,
	EntityGrowthRecord,
	EntityEvent,
	EntityMilestone,
}

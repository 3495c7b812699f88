package domain

import "time"

// DateLayout is the calendar-date format used for expiration dates everywhere
// they are read or written as text.
const DateLayout = "2006-01-02"

type Item struct {
	ID        int64
	Name      string
	Category  string
	Quantity  int
	ExpiresOn *time.Time
}

// Clone returns a copy of the item that shares no memory with it.
func (i *Item) Clone() *Item {
	c := *i
	if i.ExpiresOn != nil {
		d := *i.ExpiresOn
		c.ExpiresOn = &d
	}
	return &c
}

// ExpiredAsOf reports whether the item's expiration date falls strictly before
// the calendar date of asOf. Items without a date never expire.
func (i *Item) ExpiredAsOf(asOf time.Time) bool {
	if i.ExpiresOn == nil {
		return false
	}
	return Date(*i.ExpiresOn).Before(Date(asOf))
}

// Date truncates t to midnight UTC of its own calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

type CategoryCount struct {
	Category string
	Items    int
}

type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

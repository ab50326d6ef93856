package value

import (
	"fmt"
	"strings"
	"time"
)

// Date — календарная дата без времени и часового пояса. Хранится как полночь
// UTC, поэтому арифметика по дням не зависит от переходов на летнее время.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf берёт календарную дату момента t в его собственной локации.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate принимает дату в формате YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return Date{t: t}, nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

func (d Date) AddYears(years int) Date {
	return Date{t: d.t.AddDate(years, 0, 0)}
}

func (d Date) Year() int {
	return d.t.Year()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Compare возвращает -1, 0 или +1.
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// DaysUntil — сколько дней от d до other (отрицательно, если other раньше).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24) //nolint:mnd
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(time.DateOnly)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

package value

import (
	"fmt"
	"time"
)

// dateTimeShape tags which of the three surface forms spec.md §4.5
// describes a DateTime was built as: a bare date, a bare time-of-day, or
// a full date+time. Printing, equality and hashing all depend on the
// shape (two DateTimes are equal iff their instants and shapes both
// match, since `$2020-01-01$` and a full-datetime value at that same
// instant are not the same literal).
type dateTimeShape int

const (
	shapeDate dateTimeShape = iota
	shapeTime
	shapeDateTime
)

// DateTime is an instant in time, tagged with which surface form it was
// written in, interned.
type DateTime struct {
	t     time.Time
	shape dateTimeShape
}

func (d *DateTime) Hash() uint64 {
	return combineOrdered(fnvString("dt:"+d.t.UTC().Format(time.RFC3339Nano)), uint64(d.shape))
}
func (d *DateTime) identityHash() uint64       { return d.Hash() }
func (d *DateTime) identityEqual(o Value) bool { return d.Equal(o) }

func (d *DateTime) Equal(other Value) bool {
	o, ok := other.(*DateTime)
	return ok && d.shape == o.shape && d.t.Equal(o.t)
}

func (d *DateTime) Type() Type { return Type{Kind: KindDateTime} }

func (d *DateTime) String() string {
	switch d.shape {
	case shapeDate:
		return "$" + d.t.Format("2006-01-02") + "$"
	case shapeTime:
		return "$T" + formatTimeOfDay(d.t) + "$"
	default:
		return "$" + d.t.Format("2006-01-02") + "T" + formatTimeOfDay(d.t) + "$"
	}
}

func formatTimeOfDay(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hh := offset / 3600
	mm := (offset % 3600) / 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d%s%02d:%02d",
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6, sign, hh, mm)
}

func (d *DateTime) Accept(v Visitor) any { return v.VisitDateTime(d) }

// Time returns the underlying instant.
func (d *DateTime) Time() time.Time { return d.t }

// IsDateOnly, IsTimeOnly and IsDateTime report which surface form this
// value was built as.
func (d *DateTime) IsDateOnly() bool { return d.shape == shapeDate }
func (d *DateTime) IsTimeOnly() bool { return d.shape == shapeTime }
func (d *DateTime) IsDateTime() bool { return d.shape == shapeDateTime }

package ua

import "time"

// filetimeEpoch is 1601-01-01T00:00:00Z, the FILETIME reference point
// OPC-UA DateTime values are measured from, in 100-nanosecond intervals.
var filetimeEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

// filetimeCeiling is the first instant that must serialize as zero: OPC-UA
// DateTime values at or after 9999-12-31T23:59:59Z are out of range.
var filetimeCeiling = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// unixEpochTicks is 1970-01-01T00:00:00Z in FILETIME ticks. Conversions go
// through Unix seconds because time.Duration cannot span the centuries
// between the 1601 epoch and present-day instants.
const unixEpochTicks = 116444736000000000

// EncodeDateTime converts t to its FILETIME wire representation: a signed
// count of 100ns intervals since 1601-01-01. Values before the epoch or
// at/after 9999-12-31T23:59:59Z serialize as 0 per spec.
func EncodeDateTime(t time.Time) int64 {
	if t.Before(filetimeEpoch) || !t.Before(filetimeCeiling) {
		return 0
	}
	return unixEpochTicks + t.Unix()*10_000_000 + int64(t.Nanosecond())/100
}

// DecodeDateTime converts a FILETIME tick count back to a time.Time,
// clamping to the representable [1601-01-01, 9999-12-31) range: negative
// ticks clamp to the epoch, ticks beyond the ceiling clamp to the
// ceiling.
func DecodeDateTime(ticks int64) time.Time {
	if ticks <= 0 {
		return filetimeEpoch
	}
	rel := ticks - unixEpochTicks
	t := time.Unix(rel/10_000_000, (rel%10_000_000)*100).UTC()
	if !t.Before(filetimeCeiling) {
		return filetimeCeiling
	}
	return t
}

func (e *Encoder) WriteDateTime(t time.Time) {
	e.WriteInt64(EncodeDateTime(t))
}

func (d *Decoder) ReadDateTime() (time.Time, error) {
	ticks, err := d.ReadInt64()
	if err != nil {
		return time.Time{}, err
	}
	return DecodeDateTime(ticks), nil
}

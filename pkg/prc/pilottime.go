package prc

import "time"

// PilotTime is a PalmOS timestamp: seconds since 1904-01-01 UTC, the
// Macintosh epoch. Zero means unset.
type PilotTime uint32

// pilotEpochOffset is the number of seconds between the Mac epoch
// (1904-01-01) and the Unix epoch (1970-01-01).
const pilotEpochOffset = 2082844800

func (t PilotTime) IsZero() bool {
	return t == 0
}

// Time converts to UTC wall-clock time. ok is false when the
// timestamp is unset.
func (t PilotTime) Time() (ts time.Time, ok bool) {
	if t == 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(t)-pilotEpochOffset, 0).UTC(), true
}

func (t PilotTime) String() string {
	ts, ok := t.Time()
	if !ok {
		return "N/A"
	}
	return ts.Format("2006-01-02 15:04:05 UTC")
}

// Package normalize validates raw questionnaire records and turns them into
// eligible profiles.
package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/dedupe"
	"github.com/okian/duet/internal/domain/model"
)

var errNotNumeric = errors.New("timestamp is not a number")

// Skip records one excluded input record.
type Skip struct {
	Index    int    // position in the input
	DeviceID string // identity as submitted, may be blank
	Reason   SkipReason
	Err      error // nil for superseded records
}

// Report summarizes a Normalize call.
type Report struct {
	Total    int                `json:"total" yaml:"total"`
	Eligible int                `json:"eligible" yaml:"eligible"`
	Skipped  map[SkipReason]int `json:"skipped" yaml:"skipped"`
	Skips    []Skip             `json:"-" yaml:"-"`
}

// SkippedTotal returns the number of excluded records.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

func (r *Report) skip(s Skip) {
	r.Skipped[s.Reason]++
	r.Skips = append(r.Skips, s)
}

// Normalize returns the eligible profiles among records.
//
// A record is eligible when it has an identity, every dimension resolves to
// a known option and its timestamp is numeric and no older than window
// relative to now. A non-positive window disables the age check. When the
// same identity submitted several eligible records only the most recent one
// is kept, in the position of its first eligible occurrence.
func Normalize(records []model.RawRecord, now time.Time, window time.Duration) ([]model.Profile, Report) {
	rep := Report{Total: len(records), Skipped: make(map[SkipReason]int)}
	latest := dedupe.NewLatest[model.Profile](dedupe.WithCapacity(len(records)))
	nowMS := now.UnixMilli()

	for i, rec := range records {
		p, err := ToProfile(rec)
		if err != nil {
			rep.skip(Skip{Index: i, DeviceID: rec.DeviceID, Reason: reasonOf(err), Err: err})
			continue
		}
		// Taken from the record, not SubmittedAt: time.Time cannot round-trip
		// milliseconds near the int64 limits.
		ms, _ := Millis(rec.CreatedAt)
		if window > 0 && ms < nowMS-window.Milliseconds() {
			rep.skip(Skip{Index: i, DeviceID: rec.DeviceID, Reason: SkipStale,
				Err: invalid(SkipStale, "createdAt", nil)})
			continue
		}
		if lost, ok := latest.Offer(p.ID, i, ms, p); ok {
			rep.skip(Skip{Index: lost, DeviceID: records[lost].DeviceID, Reason: SkipSuperseded})
		}
	}

	profiles := latest.Items()
	rep.Eligible = len(profiles)
	return profiles, rep
}

// ToProfile validates a single record without any freshness check.
func ToProfile(rec model.RawRecord) (model.Profile, error) {
	id := strings.TrimSpace(rec.DeviceID)
	if id == "" {
		return model.Profile{}, invalid(SkipMissingIdentity, "deviceId", nil)
	}

	var set attribute.Set
	for _, d := range attribute.All() {
		o, err := d.Parse(rec.Value(d))
		switch {
		case errors.Is(err, attribute.ErrBlank):
			return model.Profile{}, invalid(SkipMissingField, d.Field(), err)
		case err != nil:
			return model.Profile{}, invalid(SkipUnknownValue, d.Field(), err)
		}
		set[d] = o
	}

	ms, err := Millis(rec.CreatedAt)
	if err != nil {
		return model.Profile{}, invalid(SkipBadTimestamp, "createdAt", err)
	}

	name := strings.TrimSpace(rec.DisplayName)
	if name == "" {
		name = id
	}
	return model.Profile{
		ID:          id,
		DisplayName: name,
		Attributes:  set,
		SubmittedAt: time.UnixMilli(ms).UTC(),
	}, nil
}

// Millis converts a decoded numeric timestamp to epoch milliseconds.
// Strings, booleans, nil and non-finite numbers are rejected.
func Millis(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, errNotNumeric
		}
		return int64(t), nil
	case float32:
		return finite(float64(t))
	case float64:
		return finite(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, errNotNumeric
		}
		return finite(f)
	default:
		return 0, errNotNumeric
	}
}

func finite(f float64) (int64, error) {
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotNumeric
	}
	return int64(f), nil
}

func reasonOf(err error) SkipReason {
	var ipe *InvalidProfileError
	if errors.As(err, &ipe) {
		return ipe.Reason
	}
	return SkipUnknownValue
}

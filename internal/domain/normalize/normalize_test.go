package normalize_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id string, age time.Duration) model.RawRecord {
	return model.RawRecord{
		DeviceID:           id,
		DisplayName:        "name-" + id,
		MainDomain:         "core_tech",
		SecondDomain:       "community",
		WorkStyle:          "collaborative",
		TeamStyle:          "pair",
		WorkPace:           "steady",
		TeamRole:           "planner",
		MotivationSource:   "learning",
		PressureResponse:   "calm",
		ConflictStyle:      "diplomatic",
		CommunicationStyle: "verbal",
		LifeInterest:       "nature",
		ImportanceLevel:    "high",
		CreatedAt:          float64(now.Add(-age).UnixMilli()),
	}
}

func TestToProfile(t *testing.T) {
	Convey("Given a complete record", t, func() {
		rec := record("dev-1", time.Minute)

		Convey("When converting it", func() {
			p, err := normalize.ToProfile(rec)

			Convey("Then every dimension is resolved", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "dev-1")
				So(p.DisplayName, ShouldEqual, "name-dev-1")
				So(p.Attributes.Complete(), ShouldBeTrue)
				So(p.Get(attribute.WorkPace), ShouldEqual, attribute.Option(2))
				So(p.SubmittedAt.Equal(now.Add(-time.Minute)), ShouldBeTrue)
			})
		})

		Convey("When labels and aliases are used instead of slugs", func() {
			rec.MainDomain = "  הייטק ליבה – תשתיות, פיתוח ומערכות מורכבות "
			rec.WorkPace = "STEADY"
			rec.TeamRole = "Plans and organizes"
			p, err := normalize.ToProfile(rec)

			Convey("Then they resolve to the same options", func() {
				So(err, ShouldBeNil)
				So(attribute.PrimaryDomain.Slug(p.Get(attribute.PrimaryDomain)), ShouldEqual, "core_tech")
				So(attribute.WorkPace.Slug(p.Get(attribute.WorkPace)), ShouldEqual, "steady")
				So(attribute.TeamRole.Slug(p.Get(attribute.TeamRole)), ShouldEqual, "planner")
			})
		})

		Convey("When the display name is blank", func() {
			rec.DisplayName = "   "
			p, err := normalize.ToProfile(rec)

			Convey("Then the identity is used as display name", func() {
				So(err, ShouldBeNil)
				So(p.DisplayName, ShouldEqual, "dev-1")
			})
		})

		Convey("When a field is blank", func() {
			rec.ConflictStyle = " "
			_, err := normalize.ToProfile(rec)

			Convey("Then it is an invalid profile with a missing field", func() {
				So(errors.Is(err, normalize.ErrInvalidProfile), ShouldBeTrue)
				So(errors.Is(err, attribute.ErrBlank), ShouldBeTrue)
				var ipe *normalize.InvalidProfileError
				So(errors.As(err, &ipe), ShouldBeTrue)
				So(ipe.Reason, ShouldEqual, normalize.SkipMissingField)
				So(ipe.Field, ShouldEqual, "conflictStyle")
			})
		})

		Convey("When a value has a typo", func() {
			rec.WorkStyle = "colaborative"
			_, err := normalize.ToProfile(rec)

			Convey("Then it is rejected as an unknown value", func() {
				So(errors.Is(err, attribute.ErrUnknownValue), ShouldBeTrue)
				var ipe *normalize.InvalidProfileError
				So(errors.As(err, &ipe), ShouldBeTrue)
				So(ipe.Reason, ShouldEqual, normalize.SkipUnknownValue)
			})
		})

		Convey("When the identity is missing", func() {
			rec.DeviceID = ""
			_, err := normalize.ToProfile(rec)

			Convey("Then it is rejected", func() {
				var ipe *normalize.InvalidProfileError
				So(errors.As(err, &ipe), ShouldBeTrue)
				So(ipe.Reason, ShouldEqual, normalize.SkipMissingIdentity)
			})
		})

		Convey("When the timestamp is a string", func() {
			rec.CreatedAt = "1700000000000"
			_, err := normalize.ToProfile(rec)

			Convey("Then it is rejected as a bad timestamp", func() {
				var ipe *normalize.InvalidProfileError
				So(errors.As(err, &ipe), ShouldBeTrue)
				So(ipe.Reason, ShouldEqual, normalize.SkipBadTimestamp)
			})
		})
	})
}

func TestMillis(t *testing.T) {
	Convey("Given decoded timestamps of several types", t, func() {
		Convey("Then numbers are accepted", func() {
			for _, v := range []any{int(5), int32(5), int64(5), uint32(5), uint64(5), float32(5), float64(5.9), json.Number("5")} {
				ms, err := normalize.Millis(v)
				So(err, ShouldBeNil)
				So(ms, ShouldEqual, 5)
			}
		})

		Convey("Then non-numbers are rejected", func() {
			for _, v := range []any{nil, "5", true, math.NaN(), math.Inf(1), json.Number("x"), uint64(math.MaxUint64)} {
				_, err := normalize.Millis(v)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Then values at or beyond 2^63 are rejected", func() {
			for _, v := range []any{json.Number("9223372036854775808"), float64(math.MaxInt64), math.Ldexp(1, 70)} {
				_, err := normalize.Millis(v)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a mixed batch of records", t, func() {
		missing := record("dev-missing", time.Minute)
		missing.LifeInterest = ""
		badTS := record("dev-badts", time.Minute)
		badTS.CreatedAt = nil
		stale := record("dev-stale", 25*time.Hour)
		older := record("dev-a", 2*time.Hour)
		older.DisplayName = "old name"
		newer := record("dev-a", time.Hour)
		newer.DisplayName = "new name"

		records := []model.RawRecord{
			record("dev-b", time.Minute),
			older,
			missing,
			badTS,
			stale,
			record("dev-c", time.Minute),
			newer,
		}

		Convey("When normalizing with a one day window", func() {
			profiles, rep := normalize.Normalize(records, now, 24*time.Hour)

			Convey("Then only eligible, deduplicated profiles remain in first-occurrence order", func() {
				So(len(profiles), ShouldEqual, 3)
				So(profiles[0].ID, ShouldEqual, "dev-b")
				So(profiles[1].ID, ShouldEqual, "dev-a")
				So(profiles[1].DisplayName, ShouldEqual, "new name")
				So(profiles[2].ID, ShouldEqual, "dev-c")
			})

			Convey("Then the report counts every skip", func() {
				So(rep.Total, ShouldEqual, 7)
				So(rep.Eligible, ShouldEqual, 3)
				So(rep.Skipped[normalize.SkipMissingField], ShouldEqual, 1)
				So(rep.Skipped[normalize.SkipBadTimestamp], ShouldEqual, 1)
				So(rep.Skipped[normalize.SkipStale], ShouldEqual, 1)
				So(rep.Skipped[normalize.SkipSuperseded], ShouldEqual, 1)
				So(rep.SkippedTotal(), ShouldEqual, 4)
				So(len(rep.Skips), ShouldEqual, 4)
			})
		})

		Convey("When the window is disabled", func() {
			profiles, rep := normalize.Normalize(records, now, 0)

			Convey("Then stale records are kept", func() {
				So(len(profiles), ShouldEqual, 4)
				So(rep.Skipped[normalize.SkipStale], ShouldEqual, 0)
			})
		})

		Convey("When a stale resubmission follows a fresh one", func() {
			fresh := record("dev-x", time.Minute)
			old := record("dev-x", 48*time.Hour)
			profiles, rep := normalize.Normalize([]model.RawRecord{fresh, old}, now, 24*time.Hour)

			Convey("Then the stale one is dropped before dedupe", func() {
				So(len(profiles), ShouldEqual, 1)
				So(rep.Skipped[normalize.SkipStale], ShouldEqual, 1)
				So(rep.Skipped[normalize.SkipSuperseded], ShouldEqual, 0)
			})
		})

		Convey("When records sit exactly on the window edge", func() {
			edge := record("dev-edge", 24*time.Hour)
			edge.CreatedAt = now.Add(-24 * time.Hour).UnixMilli()
			past := record("dev-past", 24*time.Hour)
			past.CreatedAt = now.Add(-24*time.Hour).UnixMilli() - 1
			profiles, rep := normalize.Normalize([]model.RawRecord{edge, past}, now, 24*time.Hour)

			Convey("Then an age equal to the window is kept and one millisecond more is stale", func() {
				So(len(profiles), ShouldEqual, 1)
				So(profiles[0].ID, ShouldEqual, "dev-edge")
				So(rep.Skipped[normalize.SkipStale], ShouldEqual, 1)
				So(rep.Skips[0].DeviceID, ShouldEqual, "dev-past")
			})
		})

		Convey("When timestamps sit near the int64 limits", func() {
			ancient := record("dev-ancient", 0)
			ancient.CreatedAt = json.Number("-9223372036854775000")
			lowest := record("dev-lowest", 0)
			lowest.CreatedAt = int64(math.MinInt64)
			huge := record("dev-huge", 0)
			huge.CreatedAt = json.Number("9223372036854775808")
			profiles, rep := normalize.Normalize([]model.RawRecord{ancient, lowest, huge}, now, 24*time.Hour)

			Convey("Then none of them is eligible", func() {
				So(profiles, ShouldBeEmpty)
				So(rep.Skipped[normalize.SkipStale], ShouldEqual, 2)
				So(rep.Skipped[normalize.SkipBadTimestamp], ShouldEqual, 1)
			})
		})

		Convey("When a participant resubmits later in the batch", func() {
			first := record("dev-r", 2*time.Hour)
			second := record("dev-r", time.Hour)
			profiles, rep := normalize.Normalize([]model.RawRecord{first, second}, now, 24*time.Hour)

			Convey("Then the skip points at the earlier record that was dropped", func() {
				So(len(profiles), ShouldEqual, 1)
				So(rep.Skips, ShouldHaveLength, 1)
				So(rep.Skips[0].Index, ShouldEqual, 0)
				So(rep.Skips[0].Reason, ShouldEqual, normalize.SkipSuperseded)
			})
		})

		Convey("When an older resubmission arrives after a newer one", func() {
			newest := record("dev-r", time.Hour)
			older := record("dev-r", 2*time.Hour)
			_, rep := normalize.Normalize([]model.RawRecord{newest, older}, now, 24*time.Hour)

			Convey("Then the skip points at the older, later record", func() {
				So(rep.Skips, ShouldHaveLength, 1)
				So(rep.Skips[0].Index, ShouldEqual, 1)
			})
		})

		Convey("When the input is empty", func() {
			profiles, rep := normalize.Normalize(nil, now, time.Hour)

			Convey("Then nothing is eligible", func() {
				So(profiles, ShouldBeEmpty)
				So(rep.Total, ShouldEqual, 0)
				So(rep.Eligible, ShouldEqual, 0)
			})
		})
	})
}

package matching_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/matching"
	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// stubScorer answers from a fixed table keyed by "lo|hi".
type stubScorer struct {
	scores map[string]float64
	calls  int
}

func key(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func (s *stubScorer) Score(a, b model.Profile) (scoring.Result, error) {
	s.calls++
	v := s.scores[key(a.ID, b.ID)]
	return scoring.Result{Value: v, Reasons: []model.Reason{{Factor: "stub", Points: v, Text: key(a.ID, b.ID)}}}, nil
}

type failingScorer struct{}

func (failingScorer) Score(a, b model.Profile) (scoring.Result, error) {
	return scoring.Result{}, fmt.Errorf("%w: boom", scoring.ErrTableMisconfigured)
}

func named(ids ...string) []model.Profile {
	out := make([]model.Profile, len(ids))
	for i, id := range ids {
		out[i] = model.Profile{ID: id, DisplayName: id}
	}
	return out
}

func randomProfiles(seed int64, n int) []model.Profile {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	out := make([]model.Profile, n)
	for i := range out {
		var set attribute.Set
		for _, d := range attribute.All() {
			set[d] = attribute.Option(rng.Intn(d.Len()) + 1)
		}
		out[i] = model.Profile{ID: fmt.Sprintf("p%02d", i), DisplayName: fmt.Sprintf("P %d", i), Attributes: set}
	}
	return out
}

func uniform(id string, o attribute.Option) model.Profile {
	var set attribute.Set
	for i := range set {
		set[i] = o
	}
	return model.Profile{ID: id, DisplayName: id, Attributes: set}
}

func TestMatrix(t *testing.T) {
	Convey("Given four profiles and a stub scorer", t, func() {
		s := &stubScorer{scores: map[string]float64{"a|b": 1, "a|c": 2, "a|d": 3, "b|c": 4, "b|d": 5, "c|d": 6}}
		m, err := matching.BuildMatrix(named("a", "b", "c", "d"), s)
		So(err, ShouldBeNil)

		Convey("Then every unordered pair is scored once", func() {
			So(s.calls, ShouldEqual, 6)
			So(m.Len(), ShouldEqual, 4)
		})

		Convey("Then lookups are symmetric", func() {
			So(m.At(0, 3).Value, ShouldEqual, 3)
			So(m.At(3, 0).Value, ShouldEqual, 3)
			So(m.At(2, 3).Value, ShouldEqual, 6)
			So(m.At(1, 1).Value, ShouldEqual, 0)
		})

		Convey("Then Score answers from the cache for known ids", func() {
			r, err := m.Score(model.Profile{ID: "d"}, model.Profile{ID: "b"})
			So(err, ShouldBeNil)
			So(r.Value, ShouldEqual, 5)
			So(s.calls, ShouldEqual, 6)
		})

		Convey("Then Score delegates for unknown ids", func() {
			_, err := m.Score(model.Profile{ID: "z"}, model.Profile{ID: "b"})
			So(err, ShouldBeNil)
			So(s.calls, ShouldEqual, 7)
		})
	})

	Convey("Given profiles sharing an id", t, func() {
		_, err := matching.BuildMatrix(named("a", "b", "a"), &stubScorer{})

		Convey("Then building the matrix fails", func() {
			So(errors.Is(err, matching.ErrDuplicateProfile), ShouldBeTrue)
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("Given scores where the greedy choice is clear", t, func() {
		s := &stubScorer{scores: map[string]float64{"a|b": 10, "c|d": 9, "a|c": 12, "b|d": 1}}
		pairs, leftover, err := matching.Select(named("d", "c", "b", "a"), s)
		So(err, ShouldBeNil)

		Convey("Then the highest pair is taken first and members are ordered by id", func() {
			So(leftover, ShouldBeNil)
			So(len(pairs), ShouldEqual, 2)
			So(pairs[0].A.ID, ShouldEqual, "a")
			So(pairs[0].B.ID, ShouldEqual, "c")
			So(pairs[0].Score, ShouldEqual, 12)
			So(pairs[0].Reasons[0].Text, ShouldEqual, "a|c")
			So(pairs[1].A.ID, ShouldEqual, "b")
			So(pairs[1].B.ID, ShouldEqual, "d")
			So(pairs[1].Score, ShouldEqual, 1)
		})
	})

	Convey("Given all scores tied", t, func() {
		pairs, leftover, err := matching.Select(named("d", "c", "b", "a", "e"), &stubScorer{})
		So(err, ShouldBeNil)

		Convey("Then ties break on lexical id order", func() {
			So(len(pairs), ShouldEqual, 2)
			So(pairs[0].A.ID+pairs[0].B.ID, ShouldEqual, "ab")
			So(pairs[1].A.ID+pairs[1].B.ID, ShouldEqual, "cd")
			So(leftover, ShouldNotBeNil)
			So(leftover.ID, ShouldEqual, "e")
		})
	})

	Convey("Given a scorer that faults", t, func() {
		_, _, err := matching.Select(named("a", "b"), failingScorer{})

		Convey("Then the fault propagates", func() {
			So(errors.Is(err, scoring.ErrTableMisconfigured), ShouldBeTrue)
		})
	})
}

func TestResolveOddCount(t *testing.T) {
	Convey("Given two pairs and a leftover", t, func() {
		s := &stubScorer{scores: map[string]float64{
			"a|b": 20, "c|d": 15,
			"a|e": 1, "b|e": 1, "c|e": 5, "d|e": 5,
		}}
		pairs, leftover, err := matching.Select(named("a", "b", "c", "d", "e"), s)
		So(err, ShouldBeNil)
		So(leftover.ID, ShouldEqual, "e")

		Convey("When resolving the odd count", func() {
			trio, err := matching.ResolveOddCount(pairs, leftover, s)

			Convey("Then the pair with the highest combined affinity is chosen", func() {
				So(err, ShouldBeNil)
				So(trio, ShouldNotBeNil)
				So(trio.WithPairIndex, ShouldEqual, 1)
				So(trio.Lone.ID, ShouldEqual, "e")
				So(trio.Affinity, ShouldEqual, 10)
			})

			Convey("Then the referenced pair is unchanged", func() {
				So(pairs[1].A.ID, ShouldEqual, "c")
				So(pairs[1].B.ID, ShouldEqual, "d")
				So(pairs[1].Score, ShouldEqual, 15)
			})
		})
	})

	Convey("Given fractional affinities", t, func() {
		s := &stubScorer{scores: map[string]float64{"a|b": 20, "a|c": 0.333, "b|c": 0.334}}
		pairs, leftover, err := matching.Select(named("a", "b", "c"), s)
		So(err, ShouldBeNil)
		trio, err := matching.ResolveOddCount(pairs, leftover, s)

		Convey("Then the affinity uses the score precision", func() {
			So(err, ShouldBeNil)
			So(trio.Affinity, ShouldEqual, scoring.Round(0.333+0.334))
			So(trio.Affinity, ShouldEqual, 0.67)
		})
	})

	Convey("Given equal affinity to every pair", t, func() {
		s := &stubScorer{scores: map[string]float64{"a|b": 20, "c|d": 15}}
		pairs, leftover, err := matching.Select(named("a", "b", "c", "d", "e"), s)
		So(err, ShouldBeNil)
		trio, err := matching.ResolveOddCount(pairs, leftover, s)

		Convey("Then the earliest pair wins", func() {
			So(err, ShouldBeNil)
			So(trio.WithPairIndex, ShouldEqual, 0)
		})
	})

	Convey("Given no leftover or no pairs", t, func() {
		trio, err := matching.ResolveOddCount([]model.ScoredPair{{}}, nil, &stubScorer{})
		So(err, ShouldBeNil)
		So(trio, ShouldBeNil)

		lone := model.Profile{ID: "x"}
		trio, err = matching.ResolveOddCount(nil, &lone, &stubScorer{})
		So(err, ShouldBeNil)
		So(trio, ShouldBeNil)
	})

	Convey("Given a scorer that faults", t, func() {
		lone := model.Profile{ID: "x"}
		_, err := matching.ResolveOddCount([]model.ScoredPair{{}}, &lone, failingScorer{})
		So(err, ShouldNotBeNil)
	})
}

func TestEnginePair(t *testing.T) {
	Convey("Given the default engine", t, func() {
		e, err := matching.NewEngine()
		So(err, ShouldBeNil)
		So(e.Window(), ShouldEqual, 24*time.Hour)

		Convey("When pairing rosters of every size up to 15", func() {
			for n := 0; n <= 15; n++ {
				profiles := randomProfiles(int64(n), n)
				res, err := e.Pair(profiles)
				So(err, ShouldBeNil)

				So(len(res.Pairs), ShouldEqual, n/2)
				seen := map[string]bool{}
				for _, p := range res.Pairs {
					So(seen[p.A.ID], ShouldBeFalse)
					So(seen[p.B.ID], ShouldBeFalse)
					So(p.A.ID, ShouldBeLessThan, p.B.ID)
					seen[p.A.ID], seen[p.B.ID] = true, true
				}
				for i := 1; i < len(res.Pairs); i++ {
					So(res.Pairs[i-1].Score, ShouldBeGreaterThanOrEqualTo, res.Pairs[i].Score)
				}

				if n%2 == 1 && n >= 3 {
					So(res.Trio, ShouldNotBeNil)
					So(seen[res.Trio.Lone.ID], ShouldBeFalse)
					So(res.Trio.WithPairIndex, ShouldBeBetweenOrEqual, 0, len(res.Pairs)-1)
					So(res.Participants(), ShouldEqual, n)
				} else {
					So(res.Trio, ShouldBeNil)
				}

				if n < 2 {
					So(res.Status, ShouldEqual, model.StatusInsufficientParticipants)
					So(matching.AsError(res), ShouldEqual, matching.ErrInsufficientParticipants)
				} else {
					So(res.Status, ShouldEqual, model.StatusReady)
					So(matching.AsError(res), ShouldBeNil)
				}
			}
		})

		Convey("When the same roster is paired twice", func() {
			profiles := randomProfiles(99, 11)
			first, err := e.Pair(profiles)
			So(err, ShouldBeNil)
			second, err := e.Pair(profiles)
			So(err, ShouldBeNil)
			b1, _ := json.Marshal(first)
			b2, _ := json.Marshal(second)

			Convey("Then the output is byte-identical", func() {
				So(cmp.Diff(string(b1), string(b2)), ShouldBeEmpty)
			})
		})

		Convey("When the roster order is reversed", func() {
			profiles := randomProfiles(5, 9)
			reversed := make([]model.Profile, len(profiles))
			for i, p := range profiles {
				reversed[len(profiles)-1-i] = p
			}
			a, err := e.Pair(profiles)
			So(err, ShouldBeNil)
			b, err := e.Pair(reversed)
			So(err, ShouldBeNil)

			Convey("Then the matching does not change", func() {
				So(cmp.Diff(a, b), ShouldBeEmpty)
			})
		})

		Convey("When four close profiles and one outlier are paired", func() {
			// a/b and c/d are near-identical pairs; e differs everywhere but
			// shares a few answers with c.
			a, b := uniform("a", 1), uniform("b", 1)
			c, d := uniform("c", 3), uniform("d", 3)
			d.Attributes[attribute.LifeInterest] = 4
			outlier := uniform("e", 2)
			outlier.Attributes[attribute.WorkPace] = 3
			outlier.Attributes[attribute.CommunicationStyle] = 3
			outlier.Attributes[attribute.MotivationSource] = 3

			res, err := e.Pair([]model.Profile{outlier, a, c, b, d})
			So(err, ShouldBeNil)

			Convey("Then there are two pairs and the trio joins the best-affinity pair", func() {
				So(len(res.Pairs), ShouldEqual, 2)
				So(res.Trio, ShouldNotBeNil)
				So(res.Trio.Lone.ID, ShouldEqual, "e")

				s, err := scoring.NewTableScorer()
				So(err, ShouldBeNil)
				best, bestAff := -1, -1.0
				for i, p := range res.Pairs {
					ra, _ := s.Score(outlier, p.A)
					rb, _ := s.Score(outlier, p.B)
					if ra.Value+rb.Value > bestAff {
						best, bestAff = i, ra.Value+rb.Value
					}
				}
				So(res.Trio.WithPairIndex, ShouldEqual, best)
				So(res.Pairs[best].Has("c"), ShouldBeTrue)
				So(res.Trio.Affinity, ShouldAlmostEqual, bestAff, 0.001)
			})
		})
	})

	Convey("Given an engine with a faulty scorer", t, func() {
		e, err := matching.NewEngine(matching.WithScorer(failingScorer{}))
		So(err, ShouldBeNil)

		Convey("When pairing", func() {
			res, err := e.Pair(named("a", "b", "c"))

			Convey("Then no partial result is returned", func() {
				So(errors.Is(err, scoring.ErrTableMisconfigured), ShouldBeTrue)
				So(res.Pairs, ShouldBeNil)
				So(res.Trio, ShouldBeNil)
			})
		})
	})
}

func TestEngineRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := func(id string, slug string) model.RawRecord {
		r := model.RawRecord{DeviceID: id, DisplayName: id, CreatedAt: float64(now.Add(-time.Minute).UnixMilli())}
		for _, d := range attribute.All() {
			r.SetValue(d, d.Choices()[0].Slug)
		}
		r.MainDomain = slug
		return r
	}

	Convey("Given an engine with a one hour window", t, func() {
		e, err := matching.NewEngine(matching.WithFreshnessWindow(time.Hour))
		So(err, ShouldBeNil)

		Convey("When fewer than two records are eligible", func() {
			bad := rec("b", "core_tech")
			bad.TeamRole = ""
			res, rep, err := e.Run([]model.RawRecord{rec("a", "core_tech"), bad}, now)

			Convey("Then the result is empty and no error is raised", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, model.StatusInsufficientParticipants)
				So(res.Pairs, ShouldBeEmpty)
				So(res.Trio, ShouldBeNil)
				So(rep.Eligible, ShouldEqual, 1)
				So(rep.SkippedTotal(), ShouldEqual, 1)
			})
		})

		Convey("When no records are given", func() {
			res, rep, err := e.Run(nil, now)
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, model.StatusInsufficientParticipants)
			So(rep.Total, ShouldEqual, 0)
		})

		Convey("When a participant resubmitted", func() {
			first := rec("a", "core_tech")
			first.CreatedAt = float64(now.Add(-30 * time.Minute).UnixMilli())
			second := rec("a", "community")
			res, rep, err := e.Run([]model.RawRecord{first, rec("b", "community"), second}, now)

			Convey("Then only the latest submission is paired", func() {
				So(err, ShouldBeNil)
				So(rep.Eligible, ShouldEqual, 2)
				So(len(res.Pairs), ShouldEqual, 1)
				So(attribute.PrimaryDomain.Slug(res.Pairs[0].A.Get(attribute.PrimaryDomain)), ShouldEqual, "community")
			})
		})
	})
}

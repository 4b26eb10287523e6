package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/seed"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
recruits:
  - id: r1
    Name: John Smith
    Class: 2027
    Position: QB
    School: Central High
    State: TX
    Height: 6'2"
    Weight: "205"
    KC Grade: 2 - Early Contributor
    Archetype: Pocket Passer
    KC's Take: Quick release, good eyes.
  - Name: Alex Brown
    Class: "2026"
    Position: WR
submissions:
  - recruit: r1
    user: u1
    grade: 1 - Early Impact
    strengths: [Arm Strength, Quick Release]
    predictedSchool: Alabama
    submittedAt: 2026-01-02T10:00:00Z
  - recruit: Alex Brown
    user: u1
    grade: 8 - Watchlist
bookmarks:
  - recruit: Alex Brown
    user: u1
    bookmarkedAt: 2026-01-03T10:00:00Z
`

func TestParse(t *testing.T) {
	Convey("Given a seed document", t, func() {
		f, err := seed.Parse(strings.NewReader(sample))
		So(err, ShouldBeNil)

		Convey("Recruit columns are decoded", func() {
			So(f.Recruits, ShouldHaveLength, 2)
			r := f.Recruits[0].Model()
			So(r.Class, ShouldEqual, "2027")
			So(r.KCGrade, ShouldEqual, "2 - Early Contributor")
			So(r.KCTake, ShouldEqual, "Quick release, good eyes.")
			So(r.Height, ShouldEqual, `6'2"`)
		})

		Convey("Recruits without an id get one and are referenced by name", func() {
			id := f.Recruits[1].ID
			So(id, ShouldNotBeEmpty)
			So(f.Submissions[1].Recruit, ShouldEqual, id)
			So(f.Bookmarks[0].Recruit, ShouldEqual, id)
		})

		Convey("A missing editedAt defaults to submittedAt", func() {
			s := f.Submissions[0].Model()
			So(s.EditedAt.Equal(s.SubmittedAt), ShouldBeTrue)
			So(s.Strengths, ShouldResemble, []string{"Arm Strength", "Quick Release"})
		})
	})

	Convey("Invalid documents are rejected", t, func() {
		cases := map[string]string{
			"missing name":    "recruits:\n  - id: r1\n",
			"duplicate id":    "recruits:\n  - {id: r1, Name: A}\n  - {id: r1, Name: B}\n",
			"unknown grade":   "submissions:\n  - {recruit: r1, user: u1, grade: 9 - Nope}\n",
			"unknown school":  "submissions:\n  - {recruit: r1, user: u1, predictedSchool: Hogwarts}\n",
			"too many":        "submissions:\n  - {recruit: r1, user: u1, strengths: [Arm Strength, Big Frame, Ball Skills, Long Speed]}\n",
			"missing user":    "submissions:\n  - {recruit: r1}\n",
			"bookmark no rec": "bookmarks:\n  - {user: u1}\n",
		}
		for name, doc := range cases {
			Convey(name, func() {
				_, err := seed.Parse(strings.NewReader(doc))
				So(errors.Is(err, seed.ErrInvalidSeed), ShouldBeTrue)
			})
		}
	})

	Convey("An empty document is valid", t, func() {
		f, err := seed.Parse(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(f.Recruits, ShouldBeEmpty)
	})
}

func TestApply(t *testing.T) {
	Convey("Given a seed file on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "seed.yaml")
		So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)
		store := repository.NewMemStore(ctx)
		Reset(func() { _ = store.Close() })

		f, err := seed.Load(path)
		So(err, ShouldBeNil)

		Convey("Apply writes every record", func() {
			res, err := seed.Apply(ctx, store, f)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, seed.Result{Recruits: 2, Submissions: 2, Bookmarks: 1})

			n, err := store.CountRecruits(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			sub, err := store.GetSubmission(ctx, "r1", "u1")
			So(err, ShouldBeNil)
			So(sub.PredictedSchool, ShouldEqual, "Alabama")

			marks, err := store.ListBookmarks(ctx, "u1")
			So(err, ShouldBeNil)
			So(marks, ShouldHaveLength, 1)
		})

		Convey("Applying twice is idempotent", func() {
			_, err := seed.Apply(ctx, store, f)
			So(err, ShouldBeNil)
			_, err = seed.Apply(ctx, store, f)
			So(err, ShouldBeNil)
			n, _ := store.CountRecruits(ctx)
			So(n, ShouldEqual, 2)
		})
	})

	Convey("Loading a missing file fails", t, func() {
		_, err := seed.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		So(err, ShouldNotBeNil)
	})
}

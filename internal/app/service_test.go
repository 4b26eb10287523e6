package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/wecruit/internal/app"
	"github.com/okian/wecruit/internal/adapters/repository"
	"github.com/okian/wecruit/internal/domain/board"
	"github.com/okian/wecruit/internal/domain/editor"
	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/types"
	"github.com/okian/wecruit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// tick returns a clock that advances one minute per call.
func tick() func() time.Time {
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

var sampleRecruits = []model.Recruit{
	{ID: "r1", Name: "John Smith", Class: "2027", Position: "QB", School: "Central High", State: "TX", KCGrade: "2 - Early Contributor"},
	{ID: "r2", Name: "Alex Brown", Class: "2026", Position: "WR", School: "Smithereens High", State: "CA", KCGrade: "5 - Medium Developmental"},
	{ID: "r3", Name: "Chris Green", Class: "2027", Position: "QB", School: "North"},
}

func newService(ctx context.Context, store repository.Store, opts ...service.Option) *service.Service {
	for _, r := range sampleRecruits {
		So(store.PutRecruit(ctx, r), ShouldBeNil)
	}
	svc := service.New(append([]service.Option{service.WithStore(store), service.WithClock(tick())}, opts...)...)
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func names(p types.Page) []string {
	out := make([]string, len(p.Recruits))
	for i, r := range p.Recruits {
		out[i] = r.Name
	}
	return out
}

// brokenSubmissions fails every submission read.
type brokenSubmissions struct {
	repository.Store
}

func (brokenSubmissions) GetSubmission(context.Context, string, string) (model.Submission, error) {
	return model.Submission{}, errors.New("disk on fire")
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithFanoutLimit(2))

		Convey("Operations fail before Start", func() {
			_, err := svc.Board(ctx, board.Query{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Start creates an in-memory store and Stop releases it", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["totalRecruits"], ShouldEqual, 0)
			So(stats["fanoutLimit"], ShouldEqual, 2)

			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Board(t *testing.T) {
	Convey("Given a service with recruits", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		Reset(func() { _ = store.Close() })
		svc := newService(ctx, store)
		Reset(svc.Stop)

		Convey("The default view is every recruit by name", func() {
			page, err := svc.Board(ctx, board.Query{})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"Alex Brown", "Chris Green", "John Smith"})
			So(page.Sort, ShouldResemble, types.SortState{Key: "name", Dir: "asc"})
			So(page.Total, ShouldEqual, 3)
		})

		Convey("Options come from the full list and grade is the KC grade", func() {
			page, err := svc.Board(ctx, board.Query{Filters: board.Filters{board.Position: {"WR"}}})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"Alex Brown"})
			So(page.Options.Position, ShouldResemble, []string{"QB", "WR"})
			So(page.Options.Class, ShouldResemble, []string{"2026", "2027"})
			So(page.Options.Grade, ShouldResemble, []string{"2 - Early Contributor", "5 - Medium Developmental"})
			So(page.Recruits[0].Grade, ShouldEqual, "5 - Medium Developmental")
		})

		Convey("Search and sort combine", func() {
			page, err := svc.Board(ctx, board.Query{Search: "smith", Sort: board.Sort{Key: board.ByClass, Desc: true}})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"John Smith", "Alex Brown"})
		})
	})
}

func TestService_Submissions(t *testing.T) {
	Convey("Given a service with recruits", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		Reset(func() { _ = store.Close() })
		svc := newService(ctx, store)
		Reset(svc.Stop)

		Convey("Anonymous callers cannot read or write submissions", func() {
			_, err := svc.MySubmission(ctx, "", "r1")
			So(errors.Is(err, editor.ErrUnauthenticated), ShouldBeTrue)
			_, err = svc.SaveSubmission(ctx, "", "r1", types.SubmissionInput{})
			So(errors.Is(err, editor.ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("Unknown recruits are not found", func() {
			_, err := svc.MySubmission(ctx, "u1", "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, err = svc.Profile(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("A user without a submission gets an empty draft", func() {
			view, err := svc.MySubmission(ctx, "u1", "r1")
			So(err, ShouldBeNil)
			So(view.Exists, ShouldBeFalse)
			So(view.Strengths, ShouldBeEmpty)
		})

		Convey("Saving stores the draft and bookmarks the recruit", func() {
			view, err := svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{
				Grade:           "1 - Early Impact",
				Strengths:       []string{"Arm Strength", "Arm Strength", "Vision/Patience", "Ball Skills", "Long Speed"},
				PredictedSchool: "Alabama",
				Comment:         "elite",
			})
			So(err, ShouldBeNil)
			So(view.Exists, ShouldBeTrue)
			So(view.Strengths, ShouldResemble, []string{"Arm Strength", "Vision/Patience", "Ball Skills"})
			first := *view.SubmittedAt

			marks, err := store.ListBookmarks(ctx, "u1")
			So(err, ShouldBeNil)
			So(marks, ShouldHaveLength, 1)
			markedAt := marks[0].BookmarkedAt

			Convey("Saving again keeps submittedAt and the bookmark time", func() {
				again, err := svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{Grade: "3 - Year 2 Contributor"})
				So(err, ShouldBeNil)
				So(again.SubmittedAt.Equal(first), ShouldBeTrue)
				So(again.EditedAt.After(first), ShouldBeTrue)

				marks, err := store.ListBookmarks(ctx, "u1")
				So(err, ShouldBeNil)
				So(marks, ShouldHaveLength, 1)
				So(marks[0].BookmarkedAt.Equal(markedAt), ShouldBeTrue)
			})

			Convey("The profile summarises it", func() {
				profile, err := svc.Profile(ctx, "r1")
				So(err, ShouldBeNil)
				So(profile.Recruit.Name, ShouldEqual, "John Smith")
				So(*profile.Summary.AverageGrade, ShouldEqual, "1 - Early Impact")
				So(profile.Summary.TopSchools, ShouldResemble, []string{"Alabama"})
				So(profile.Summary.SubmissionCount, ShouldEqual, 1)
			})

			Convey("Deleting it leaves no data and keeps the bookmark", func() {
				So(svc.DeleteSubmission(ctx, "u1", "r1"), ShouldBeNil)

				profile, err := svc.Profile(ctx, "r1")
				So(err, ShouldBeNil)
				So(profile.Summary.AverageGrade, ShouldBeNil)
				So(profile.Summary.SubmissionCount, ShouldEqual, 0)

				marks, err := store.ListBookmarks(ctx, "u1")
				So(err, ShouldBeNil)
				So(marks, ShouldHaveLength, 1)

				err = svc.DeleteSubmission(ctx, "u1", "r1")
				So(errors.Is(err, editor.ErrNoSubmission), ShouldBeTrue)
			})
		})

		Convey("Unknown labels are rejected and nothing is stored", func() {
			_, err := svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{Grade: "0 - Hall of Fame"})
			So(errors.Is(err, editor.ErrUnknownGrade), ShouldBeTrue)
			_, err = svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{PredictedSchool: "Hogwarts"})
			So(errors.Is(err, editor.ErrUnknownSchool), ShouldBeTrue)
			_, err = svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{Strengths: []string{"Telekinesis"}})
			So(errors.Is(err, editor.ErrUnknownStrength), ShouldBeTrue)

			_, err = store.GetSubmission(ctx, "r1", "u1")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Evaluations(t *testing.T) {
	Convey("Given a user who evaluated two recruits", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		Reset(func() { _ = store.Close() })
		svc := newService(ctx, store)
		Reset(svc.Stop)

		_, err := svc.SaveSubmission(ctx, "u1", "r1", types.SubmissionInput{Grade: "4 - High Developmental"})
		So(err, ShouldBeNil)
		_, err = svc.SaveSubmission(ctx, "u1", "r2", types.SubmissionInput{Grade: "1 - Early Impact"})
		So(err, ShouldBeNil)
		_, err = svc.Bookmark(ctx, "u1", "r3")
		So(err, ShouldBeNil)

		Convey("Anonymous callers are rejected", func() {
			_, err := svc.Evaluations(ctx, "", board.Query{})
			So(errors.Is(err, editor.ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("The default view is newest bookmark first", func() {
			page, err := svc.Evaluations(ctx, "u1", board.Query{})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"Chris Green", "Alex Brown", "John Smith"})
			So(page.Sort, ShouldResemble, types.SortState{Key: "submitted_at", Dir: "desc"})
			So(page.Recruits[1].Submission, ShouldNotBeNil)
			So(page.Recruits[0].Submission, ShouldBeNil)
		})

		Convey("The grade dimension is the user's own grade", func() {
			page, err := svc.Evaluations(ctx, "u1", board.Query{
				Filters: board.Filters{board.Grade: {"4 - High Developmental"}},
			})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"John Smith"})
			So(page.Options.Grade, ShouldResemble, []string{"1 - Early Impact", "4 - High Developmental"})
		})

		Convey("Bookmarks of missing recruits are dropped", func() {
			So(store.PutBookmark(ctx, "u1", model.Bookmark{RecruitID: "ghost", BookmarkedAt: time.Now()}), ShouldBeNil)
			page, err := svc.Evaluations(ctx, "u1", board.Query{})
			So(err, ShouldBeNil)
			So(page.Total, ShouldEqual, 3)
		})

		Convey("Unbookmarking removes a recruit from the view", func() {
			So(svc.Unbookmark(ctx, "u1", "r3"), ShouldBeNil)
			So(svc.Unbookmark(ctx, "u1", "r3"), ShouldBeNil)
			page, err := svc.Evaluations(ctx, "u1", board.Query{})
			So(err, ShouldBeNil)
			So(names(page), ShouldResemble, []string{"Alex Brown", "John Smith"})
		})

		Convey("Bookmarking twice keeps the first time", func() {
			a, err := svc.Bookmark(ctx, "u1", "r3")
			So(err, ShouldBeNil)
			b, err := svc.Bookmark(ctx, "u1", "r3")
			So(err, ShouldBeNil)
			So(a.BookmarkedAt.Equal(b.BookmarkedAt), ShouldBeTrue)
		})

		Convey("Another user sees nothing", func() {
			page, err := svc.Evaluations(ctx, "u2", board.Query{})
			So(err, ShouldBeNil)
			So(page.Recruits, ShouldBeEmpty)
		})
	})

	Convey("Given a store whose submission reads fail", t, func() {
		ctx := context.Background()
		mem := repository.NewMemStore(ctx)
		Reset(func() { _ = mem.Close() })
		for _, r := range sampleRecruits {
			So(mem.PutRecruit(ctx, r), ShouldBeNil)
			So(mem.PutBookmark(ctx, "u1", model.Bookmark{RecruitID: r.ID, BookmarkedAt: time.Now()}), ShouldBeNil)
		}
		svc := service.New(service.WithStore(brokenSubmissions{Store: mem}))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("The whole view fails", func() {
			_, err := svc.Evaluations(ctx, "u1", board.Query{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "disk on fire")
		})
	})
}

func TestService_Vocabulary(t *testing.T) {
	Convey("The vocabulary lists the form choices", t, func() {
		v := service.New().Vocabulary()
		So(v.Grades, ShouldHaveLength, 8)
		So(v.Grades[7], ShouldEqual, "8 - Watchlist")
		So(v.Strengths, ShouldContain, "Arm Strength")
		So(v.Schools, ShouldContain, "Alabama")
		So(v.MaxStrengths, ShouldEqual, 3)
	})
}

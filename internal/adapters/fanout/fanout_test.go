package fanout_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/wecruit/internal/adapters/fanout"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMap(t *testing.T) {
	Convey("Given a group limited to two tasks", t, func() {
		ctx := context.Background()
		g := fanout.New(fanout.WithLimit(2), fanout.WithName("test"))
		So(g.Limit(), ShouldEqual, 2)

		Convey("When mapping over items", func() {
			var inFlight, peak atomic.Int32
			out, err := fanout.Map(ctx, g, []int{1, 2, 3, 4, 5}, func(_ context.Context, n int) (int, error) {
				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(time.Duration(6-n) * time.Millisecond)
				inFlight.Add(-1)
				return n * n, nil
			})

			Convey("Then results keep input order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, []int{1, 4, 9, 16, 25})
			})

			Convey("And concurrency never exceeds the limit", func() {
				So(peak.Load(), ShouldBeLessThanOrEqualTo, 2)
			})
		})

		Convey("When one task fails", func() {
			boom := errors.New("boom")
			var calls atomic.Int32
			out, err := fanout.Map(ctx, g, []string{"a", "b", "c", "d"}, func(ctx context.Context, s string) (string, error) {
				calls.Add(1)
				if s == "a" {
					return "", boom
				}
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(20 * time.Millisecond):
					return s, nil
				}
			})

			Convey("Then the whole join fails with that error", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(out, ShouldBeNil)
			})
		})

		Convey("When there are no items", func() {
			out, err := fanout.Map(ctx, g, nil, func(context.Context, int) (int, error) {
				return 0, errors.New("never called")
			})

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When the parent context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := fanout.Map(cctx, g, []int{1, 2}, func(context.Context, int) (int, error) {
				return 1, nil
			})

			Convey("Then the join reports the cancellation", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given default options", t, func() {
		So(fanout.New(fanout.WithLimit(0)).Limit(), ShouldEqual, 8)
	})
}

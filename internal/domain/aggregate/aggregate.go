// Package aggregate reduces the submissions for one recruit into summary
// statistics: average grade, top strengths and top predicted schools.
package aggregate

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/okian/wecruit/internal/domain/model"
	"github.com/okian/wecruit/internal/domain/vocab"
	"github.com/okian/wecruit/pkg/metrics"
)

// Default aggregation configuration constants.
const (
	defaultTopN = 3
	// missingLabel is reported if a rounded average has no label. Rounding a
	// mean of tiers 1-7 cannot leave that range, so it is never expected.
	missingLabel = "N/A"
)

// Aggregator computes summaries. It holds no state between calls and is safe
// for concurrent use.
type Aggregator struct {
	topN int
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{topN: defaultTopN}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize reduces submissions, keyed by user id, into a Summary.
//
// Submissions are visited in ascending user id order. Ranking ties keep the
// order in which labels were first seen during that walk.
func (a *Aggregator) Summarize(submissions map[string]model.Submission) model.Summary {
	start := time.Now()
	defer func() {
		metrics.RecordAggregateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	users := make([]string, 0, len(submissions))
	for user := range submissions {
		users = append(users, user)
	}
	sort.Strings(users)

	var (
		tiers     []int
		strengths = newTally()
		schools   = newTally()
	)
	for _, user := range users {
		sub := submissions[user]
		if tier, ok := vocab.RankedTier(sub.Grade); ok {
			tiers = append(tiers, tier)
		}
		for _, s := range sub.Strengths {
			if s != "" {
				strengths.add(s)
			}
		}
		if sub.PredictedSchool != "" {
			schools.add(sub.PredictedSchool)
		}
	}

	metrics.RecordAggregateComputed(len(submissions))
	return model.Summary{
		AverageGrade:    averageLabel(tiers),
		TopStrengths:    strengths.top(a.topN),
		TopSchools:      schools.top(a.topN),
		SubmissionCount: len(submissions),
		GradedCount:     len(tiers),
	}
}

// averageLabel rounds the mean tier half-up and maps it to a grade label.
// It returns "" when tiers is empty.
func averageLabel(tiers []int) string {
	if len(tiers) == 0 {
		return ""
	}
	sum := 0
	for _, t := range tiers {
		sum += t
	}
	mean := float64(sum) / float64(len(tiers))
	label, ok := vocab.GradeLabel(int(math.Floor(mean + 0.5)))
	if !ok {
		return missingLabel
	}
	return label
}

// tally counts labels while remembering first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// top returns up to n labels by descending count, ties in first-seen order.
func (t *tally) top(n int) []string {
	ranked := slices.Clone(t.order)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return t.counts[b] - t.counts[a]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []string{}
	}
	return ranked
}

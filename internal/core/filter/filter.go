// Package filter builds the predicate set a scan applies to every record.
// All configured predicates combine by AND; an unset category is vacuously true.
package filter

import (
	"slices"

	"dumpx/internal/core/normalize"
	"dumpx/internal/core/post"
)

// Predicate is one named pure test over a record
type Predicate struct {
	Name string
	Test func(*post.Record) bool
}

// Set is the AND of its predicates; the zero Set accepts everything
type Set struct {
	preds []Predicate
}

// Build validates cfg and returns its predicate set
// Predicates are ordered cheapest first so rejections short-circuit early
func Build(cfg Config) (Set, error) {
	if err := cfg.Validate(); err != nil {
		return Set{}, err
	}

	var ps []Predicate
	switch {
	case cfg.QuestionsOnly:
		ps = append(ps, PostType(post.TypeQuestion))
	case cfg.AnswersOnly:
		ps = append(ps, PostType(post.TypeAnswer))
	}
	if cfg.MinYear != nil || cfg.MaxYear != nil {
		ps = append(ps, YearRange(cfg.MinYear, cfg.MaxYear))
	}
	if len(cfg.Years) > 0 {
		ps = append(ps, YearIn(cfg.Years))
	}
	if cfg.MinScore != nil {
		ps = append(ps, MinScore(*cfg.MinScore))
	}
	if cfg.MaxScore != nil {
		ps = append(ps, MaxScore(*cfg.MaxScore))
	}
	if cfg.MinAnswers != nil {
		ps = append(ps, MinAnswers(*cfg.MinAnswers))
	}
	if cfg.MinViews != nil {
		ps = append(ps, MinViews(*cfg.MinViews))
	}
	switch {
	case cfg.HasAccepted:
		ps = append(ps, Accepted(true))
	case cfg.NoAccepted:
		ps = append(ps, Accepted(false))
	}
	// blank tags fold to nothing; an all-blank list is no constraint
	if len(normalize.FoldSet(cfg.IncludeTags)) > 0 {
		ps = append(ps, TagsAny(cfg.IncludeTags))
	}
	if len(normalize.FoldSet(cfg.ExcludeTags)) > 0 {
		ps = append(ps, TagsNone(cfg.ExcludeTags))
	}
	return Set{preds: ps}, nil
}

// Of returns a set over the given predicates, mostly for tests and callers composing by hand
func Of(ps ...Predicate) Set { return Set{preds: slices.Clone(ps)} }

// Match reports whether r satisfies every predicate
func (s Set) Match(r *post.Record) bool {
	_, ok := s.Reject(r)
	return ok
}

// Reject returns the name of the first failing predicate, or ("", true) when r is accepted
func (s Set) Reject(r *post.Record) (string, bool) {
	for _, p := range s.preds {
		if !p.Test(r) {
			return p.Name, false
		}
	}
	return "", true
}

// Len is the number of active predicates
func (s Set) Len() int { return len(s.preds) }

// Names lists the active predicates in evaluation order
func (s Set) Names() []string {
	out := make([]string, len(s.preds))
	for i, p := range s.preds {
		out[i] = p.Name
	}
	return out
}

// Predicate constructors

// YearRange accepts min <= year <= max with either bound optional
// Records without a CreationDate pass
func YearRange(minYear, maxYear *int) Predicate {
	var lo, hi *int
	if minYear != nil {
		v := *minYear
		lo = &v
	}
	if maxYear != nil {
		v := *maxYear
		hi = &v
	}
	return Predicate{Name: "year_range", Test: func(r *post.Record) bool {
		y, ok := r.Year()
		if !ok {
			return true
		}
		if lo != nil && y < *lo {
			return false
		}
		if hi != nil && y > *hi {
			return false
		}
		return true
	}}
}

// YearIn accepts records created in one of years; records without a CreationDate pass
func YearIn(years []int) Predicate {
	set := make(map[int]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return Predicate{Name: "years", Test: func(r *post.Record) bool {
		y, ok := r.Year()
		if !ok {
			return true
		}
		_, hit := set[y]
		return hit
	}}
}

// PostType accepts only records of type t
func PostType(t post.Type) Predicate {
	return Predicate{Name: "post_type", Test: func(r *post.Record) bool { return r.Type == t }}
}

// MinScore accepts score >= n
func MinScore(n int) Predicate {
	return Predicate{Name: "min_score", Test: func(r *post.Record) bool { return r.Score >= n }}
}

// MaxScore accepts score <= n
func MaxScore(n int) Predicate {
	return Predicate{Name: "max_score", Test: func(r *post.Record) bool { return r.Score <= n }}
}

// MinAnswers accepts questions with at least n answers
// Answer count is undefined for anything but a question, so those always reject
func MinAnswers(n int) Predicate {
	return Predicate{Name: "min_answers", Test: func(r *post.Record) bool {
		return r.IsQuestion() && r.AnswerCount >= n
	}}
}

// MinViews accepts questions with at least n views; non-questions reject
func MinViews(n int) Predicate {
	return Predicate{Name: "min_views", Test: func(r *post.Record) bool {
		return r.IsQuestion() && r.ViewCount >= n
	}}
}

// Accepted accepts questions whose accepted-answer presence equals want; non-questions reject
func Accepted(want bool) Predicate {
	name := "no_accepted"
	if want {
		name = "has_accepted"
	}
	return Predicate{Name: name, Test: func(r *post.Record) bool {
		return r.IsQuestion() && r.HasAcceptedAnswer() == want
	}}
}

// TagsAny accepts records carrying at least one of tags, compared case-insensitively
func TagsAny(tags []string) Predicate {
	set := normalize.FoldSet(tags)
	return Predicate{Name: "include_tags", Test: func(r *post.Record) bool {
		return intersects(r.Tags, set)
	}}
}

// TagsNone accepts records carrying none of tags
func TagsNone(tags []string) Predicate {
	set := normalize.FoldSet(tags)
	return Predicate{Name: "exclude_tags", Test: func(r *post.Record) bool {
		return !intersects(r.Tags, set)
	}}
}

func intersects(tags []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, t := range tags {
		if _, ok := set[normalize.FoldTag(t)]; ok {
			return true
		}
	}
	return false
}

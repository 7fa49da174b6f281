package filter

import (
	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/validate"
)

// Config is the immutable filter configuration for one scan
// Nil pointers and empty slices mean the category imposes no constraint
type Config struct {
	Target int `yaml:"target" validate:"gt=0"`

	MinYear *int  `yaml:"min_year" validate:"omitempty,min=1"`
	MaxYear *int  `yaml:"max_year" validate:"omitempty,min=1"`
	Years   []int `yaml:"years" validate:"omitempty,dive,min=1"`

	QuestionsOnly bool `yaml:"questions_only" validate:"excluded_with=AnswersOnly"`
	AnswersOnly   bool `yaml:"answers_only"`

	MinScore   *int `yaml:"min_score"`
	MaxScore   *int `yaml:"max_score"`
	MinAnswers *int `yaml:"min_answers" validate:"omitempty,min=0"`
	MinViews   *int `yaml:"min_views" validate:"omitempty,min=0"`

	HasAccepted bool `yaml:"has_accepted" validate:"excluded_with=NoAccepted"`
	NoAccepted  bool `yaml:"no_accepted"`

	IncludeTags []string `yaml:"include_tags"`
	ExcludeTags []string `yaml:"exclude_tags"`
}

// Validate rejects contradictory or out-of-range settings with an ErrorCodeConfig error
// Years together with a year range is allowed; both apply
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return perr.WithOp(err, "filter.validate")
	}
	if c.MinYear != nil && c.MaxYear != nil && *c.MinYear > *c.MaxYear {
		return perr.WithField(perr.Configf("min_year %d is after max_year %d", *c.MinYear, *c.MaxYear), "min_year")
	}
	if c.MinScore != nil && c.MaxScore != nil && *c.MinScore > *c.MaxScore {
		return perr.WithField(perr.Configf("min_score %d is above max_score %d", *c.MinScore, *c.MaxScore), "min_score")
	}
	return nil
}

// Override returns c with every field set in o copied over
// Booleans only override when true; the CLI reports which flags were given.
// The post type and accepted-answer switches override as pairs, so an explicit
// answers-only replaces a profile's questions-only instead of joining it
func (c Config) Override(o Config) Config {
	if o.Target != 0 {
		c.Target = o.Target
	}
	if o.MinYear != nil {
		c.MinYear = o.MinYear
	}
	if o.MaxYear != nil {
		c.MaxYear = o.MaxYear
	}
	if len(o.Years) > 0 {
		c.Years = o.Years
	}
	if o.QuestionsOnly || o.AnswersOnly {
		c.QuestionsOnly, c.AnswersOnly = o.QuestionsOnly, o.AnswersOnly
	}
	if o.MinScore != nil {
		c.MinScore = o.MinScore
	}
	if o.MaxScore != nil {
		c.MaxScore = o.MaxScore
	}
	if o.MinAnswers != nil {
		c.MinAnswers = o.MinAnswers
	}
	if o.MinViews != nil {
		c.MinViews = o.MinViews
	}
	if o.HasAccepted || o.NoAccepted {
		c.HasAccepted, c.NoAccepted = o.HasAccepted, o.NoAccepted
	}
	if len(o.IncludeTags) > 0 {
		c.IncludeTags = o.IncludeTags
	}
	if len(o.ExcludeTags) > 0 {
		c.ExcludeTags = o.ExcludeTags
	}
	return c
}

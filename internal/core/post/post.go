// Package post models one dump row (a question, an answer, or something else)
// together with the attributes the predicate set filters on.
package post

import (
	"strconv"
	"strings"
	"time"

	"dumpx/internal/core/normalize"
	perr "dumpx/internal/platform/errors"
	ptime "dumpx/internal/platform/time"
)

// Attribute names of the upstream dump format; they are an external contract
const (
	AttrID               = "Id"
	AttrPostTypeID       = "PostTypeId"
	AttrCreationDate     = "CreationDate"
	AttrScore            = "Score"
	AttrTags             = "Tags"
	AttrAnswerCount      = "AnswerCount"
	AttrTitle            = "Title"
	AttrBody             = "Body"
	AttrViewCount        = "ViewCount"
	AttrAcceptedAnswerID = "AcceptedAnswerId"
	AttrParentID         = "ParentId"
)

// Type discriminates questions from answers
type Type uint8

// Post types; the numeric PostTypeId values are 1 and 2 in the dump
const (
	TypeOther Type = iota
	TypeQuestion
	TypeAnswer
)

// String returns the label used by the topics renderer and logs
func (t Type) String() string {
	switch t {
	case TypeQuestion:
		return "Question"
	case TypeAnswer:
		return "Answer"
	default:
		return "Other"
	}
}

// typeFromID maps a PostTypeId; a missing id is read as a question
func typeFromID(s string) Type {
	switch strings.TrimSpace(s) {
	case "", "1":
		return TypeQuestion
	case "2":
		return TypeAnswer
	default:
		return TypeOther
	}
}

// Attr is one raw input attribute, kept in document order
type Attr struct {
	Name  string
	Value string
}

// Record is one extracted dump entry
// The id is fixed at construction; everything else is plain data
type Record struct {
	id int64

	Type    Type
	Created time.Time // zero when the row has no CreationDate
	Score   int
	// AnswerCount and ViewCount are only meaningful for questions
	AnswerCount int
	ViewCount   int

	AcceptedAnswerID int64 // 0 when absent
	ParentID         int64 // answers only

	Tags  []string // case preserved, duplicates dropped, input order
	Title string
	Body  string

	// Attrs mirrors the input row verbatim for the flat renderer
	Attrs []Attr
}

// ID returns the row identifier
func (r *Record) ID() int64 { return r.id }

// Year returns the creation year and whether the row carried a CreationDate
func (r *Record) Year() (int, bool) {
	if r.Created.IsZero() {
		return 0, false
	}
	return r.Created.Year(), true
}

// HasAcceptedAnswer reports whether the question names an accepted answer
func (r *Record) HasAcceptedAnswer() bool { return r.AcceptedAnswerID != 0 }

// IsQuestion is shorthand for Type == TypeQuestion
func (r *Record) IsQuestion() bool { return r.Type == TypeQuestion }

// Get returns the raw attribute value by name
func (r *Record) Get(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// FromAttrs builds a Record from one row's attributes
// Missing optional attributes default to zero values. A missing or bad Id, a malformed
// number, or a malformed CreationDate is an ErrorCodeRecord error naming the field
func FromAttrs(attrs []Attr) (*Record, error) {
	r := &Record{Attrs: attrs, Type: TypeQuestion}
	var sawID bool

	for _, a := range attrs {
		var err error
		switch a.Name {
		case AttrID:
			sawID = true
			r.id, err = strconv.ParseInt(strings.TrimSpace(a.Value), 10, 64)
		case AttrPostTypeID:
			r.Type = typeFromID(a.Value)
		case AttrCreationDate:
			r.Created, err = ptime.ParseDump(a.Value)
		case AttrScore:
			r.Score, err = parseInt(a.Value)
		case AttrAnswerCount:
			r.AnswerCount, err = parseInt(a.Value)
		case AttrViewCount:
			r.ViewCount, err = parseInt(a.Value)
		case AttrAcceptedAnswerID:
			r.AcceptedAnswerID, err = parseInt64(a.Value)
		case AttrParentID:
			r.ParentID, err = parseInt64(a.Value)
		case AttrTags:
			r.Tags = ParseTags(a.Value)
		case AttrTitle:
			r.Title = a.Value
		case AttrBody:
			r.Body = a.Value
		}
		if err != nil {
			return nil, perr.WithField(perr.Recordf("bad %s %q: %v", a.Name, a.Value, err), a.Name)
		}
	}

	if !sawID {
		return nil, perr.WithField(perr.Recordf("row has no %s", AttrID), AttrID)
	}
	return r, nil
}

// ParseTags splits a dump tag string into tags
// Both encodings seen in dumps are accepted: "<a><b>" and "|a|b|"
func ParseTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parts []string
	if strings.HasPrefix(s, "<") {
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == '<' || r == '>' })
	} else {
		parts = strings.Split(s, "|")
	}

	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		k := normalize.FoldTag(p)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

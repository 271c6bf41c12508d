// Package heatmap turns activity records into calendar day buckets and
// renders them as a contribution-style grid.
package heatmap

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindDiscussion Kind = "discussion"
	KindUpvote     Kind = "upvote"
	KindLike       Kind = "like"
	KindOther      Kind = "other"
)

var allKinds = []Kind{KindDiscussion, KindUpvote, KindLike, KindOther}

// ParseKind maps an API activity type onto a Kind. Anything unrecognised is
// KindOther.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDiscussion:
		return KindDiscussion
	case KindUpvote:
		return KindUpvote
	case KindLike:
		return KindLike
	default:
		return KindOther
	}
}

// Record is a single timestamped activity attributed to a user.
type Record struct {
	Time time.Time
	Kind Kind
}

// KindSet is the set of kinds seen on a single day.
type KindSet uint8

func kindBit(k Kind) KindSet {
	for i, known := range allKinds {
		if known == k {
			return 1 << i
		}
	}
	return 1 << (len(allKinds) - 1)
}

func (s *KindSet) Add(k Kind) {
	*s |= kindBit(k)
}

func (s KindSet) Has(k Kind) bool {
	return s&kindBit(k) != 0
}

func (s KindSet) Len() int {
	n := 0
	for _, k := range allKinds {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds lists the members in a stable order.
func (s KindSet) Kinds() []Kind {
	kinds := make([]Kind, 0, len(allKinds))
	for _, k := range allKinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SocialOnly reports whether the set is non-empty and holds nothing but
// upvotes and likes.
func (s KindSet) SocialOnly() bool {
	social := kindBit(KindUpvote) | kindBit(KindLike)
	return s != 0 && s&^social == 0
}

func (s KindSet) String() string {
	kinds := s.Kinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// ActivityFilter selects which kinds are kept before bucketing.
type ActivityFilter string

const (
	FilterAll        ActivityFilter = "all"
	FilterDiscussion ActivityFilter = "discussion"
	FilterUpvote     ActivityFilter = "upvote"
	FilterLike       ActivityFilter = "like"
)

// ActivityFilters lists the accepted --activity-type values.
var ActivityFilters = []ActivityFilter{FilterAll, FilterDiscussion, FilterUpvote, FilterLike}

func ParseActivityFilter(s string) (ActivityFilter, error) {
	for _, f := range ActivityFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported activity type %q", s)
}

func (f ActivityFilter) Match(k Kind) bool {
	return f == FilterAll || f == "" || Kind(f) == k
}

// Filter returns the records whose kind matches f. The input is not modified.
func Filter(records []Record, f ActivityFilter) []Record {
	if f == FilterAll || f == "" {
		return records
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r.Kind) {
			kept = append(kept, r)
		}
	}
	return kept
}

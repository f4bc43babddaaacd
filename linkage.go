package hclust

import (
	"fmt"
	"strings"
)

// Linkage selects the rule for the distance from any node to a newly merged
// pair, given that node's distances a and b to the two merged children.
type Linkage string

const (
	// LinkageSingle uses min(a, b).
	LinkageSingle Linkage = "single"
	// LinkageComplete uses max(a, b).
	LinkageComplete Linkage = "complete"
	// LinkageAverage uses (a + b) / 2, not weighted by cluster sizes.
	LinkageAverage Linkage = "average"
)

// Linkages lists the supported linkage ids.
func Linkages() []Linkage {
	return []Linkage{LinkageSingle, LinkageComplete, LinkageAverage}
}

func (l Linkage) valid() bool {
	switch l {
	case LinkageSingle, LinkageComplete, LinkageAverage:
		return true
	}
	return false
}

// update returns the distance to the union of two clusters.
func (l Linkage) update(a, b float64) float64 {
	switch l {
	case LinkageSingle:
		return min(a, b)
	case LinkageComplete:
		return max(a, b)
	default:
		return 0.5 * (a + b)
	}
}

// ParseLinkage resolves a linkage id. Both the short ids ("average") and the
// "_linkage" suffixed forms ("average_linkage") are accepted.
func ParseLinkage(s string) (Linkage, error) {
	l := Linkage(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_linkage"))
	if !l.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLinkage, s)
	}
	return l, nil
}

package snapshot

import (
	"fmt"
	"strings"
)

// CorruptPolicy decides what Get does with a stored blob that does not decode.
type CorruptPolicy int

const (
	// CorruptFallback logs the problem and serves defaults. The blob stays
	// in place until the next write replaces it.
	CorruptFallback CorruptPolicy = iota
	// CorruptFail returns ErrCorrupt to the caller.
	CorruptFail
)

func (p CorruptPolicy) String() string {
	switch p {
	case CorruptFallback:
		return "fallback"
	case CorruptFail:
		return "fail"
	default:
		return fmt.Sprintf("CorruptPolicy(%d)", int(p))
	}
}

// ParseCorruptPolicy accepts "fallback" or "fail" (case-insensitive).
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback":
		return CorruptFallback, nil
	case "fail":
		return CorruptFail, nil
	default:
		return CorruptFallback, fmt.Errorf("unknown corrupt policy %q: must be fallback or fail", s)
	}
}

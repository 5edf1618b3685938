package mirror

import (
	"fmt"
	"strconv"
	"strings"
)

// Unbounded disables the recursion limit.
const Unbounded = -1

type Options struct {
	Watch  bool
	Delete bool
	// Depth is the number of directory levels below the root pair that are
	// mirrored. The root pair is level 0.
	Depth int
}

func DefaultOptions() Options {
	return Options{Depth: Unbounded}
}

func (o Options) Validate() error {
	if o.Depth < Unbounded {
		return newError(InvalidOption, "",
			fmt.Errorf("expected valid number for option 'depth', got %d", o.Depth))
	}

	return nil
}

func (o Options) atDepthLimit(depth int) bool {
	return o.Depth != Unbounded && depth >= o.Depth
}

// ParseDepth reads a depth from configuration or flags. Empty, "inf" and
// "unbounded" mean no limit.
func ParseDepth(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inf", "infinity", "unbounded":
		return Unbounded, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < Unbounded {
		return 0, newError(InvalidOption, "",
			fmt.Errorf("expected valid number for option 'depth', got %q", s))
	}

	return n, nil
}

// FormatDepth is the inverse of ParseDepth.
func FormatDepth(depth int) string {
	if depth == Unbounded {
		return "unbounded"
	}

	return strconv.Itoa(depth)
}

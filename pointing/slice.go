package pointing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surveyfoundry/skycoverage/model"
)

// Slice selects a subset of a pointing list with the [start]:[stop]:[step]
// semantics familiar from the survey tooling: omitted bounds default to
// the ends of the list, negative indices count from the end, and a
// negative step walks the list backwards.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// ParseSlice parses a slice expression such as ":", "10:", ":100",
// "10:100:2", or "::-1". A bare index like "10" selects everything from
// that pointing onwards.
func ParseSlice(s string) (Slice, error) {
	if s == "" {
		return Slice{}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Slice{}, fmt.Errorf("slice %q has more than three fields", s)
	}

	var sl Slice
	fields := []**int{&sl.Start, &sl.Stop, &sl.Step}
	for i, part := range parts {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Slice{}, fmt.Errorf("slice %q: field %d is not an integer", s, i+1)
		}
		v := n
		*fields[i] = &v
	}
	if sl.Step != nil && *sl.Step == 0 {
		return Slice{}, fmt.Errorf("slice %q: step cannot be zero", s)
	}
	return sl, nil
}

// Apply returns the selected pointings, preserving traversal order.
func (sl Slice) Apply(targets []model.Target) []model.Target {
	n := len(targets)
	step := 1
	if sl.Step != nil {
		step = *sl.Step
	}

	start, stop := sl.bounds(n, step)

	out := make([]model.Target, 0)
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, targets[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, targets[i])
		}
	}
	return out
}

// bounds resolves the start/stop indices for a list of length n,
// applying defaults, negative offsets, and clamping.
func (sl Slice) bounds(n, step int) (start, stop int) {
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}

	if sl.Start != nil {
		start = resolveIndex(*sl.Start, n, step)
	}
	if sl.Stop != nil {
		stop = resolveIndex(*sl.Stop, n, step)
	}
	return start, stop
}

func resolveIndex(i, n, step int) int {
	if i < 0 {
		i += n
		if i < 0 {
			if step > 0 {
				return 0
			}
			return -1
		}
		return i
	}
	if i > n {
		if step > 0 {
			return n
		}
		return n - 1
	}
	if step < 0 && i >= n {
		return n - 1
	}
	return i
}

package slidepdf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRange converts a 1-based range such as "3", "1-5" or "1,3,5" into
// 0-based indices below total, in the order given and without duplicates.
// An empty spec selects all indices.
func ParseRange(spec string, total int) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	add := func(p int) {
		if !seen[p] {
			indices = append(indices, p-1)
			seen[p] = true
		}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidRange, lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidRange, hi)
			}
			if start < 1 || end > total || start > end {
				return nil, fmt.Errorf("%w: %d-%d outside 1-%d", ErrInvalidRange, start, end, total)
			}
			for p := start; p <= end; p++ {
				add(p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrInvalidRange, part)
		}
		if p < 1 || p > total {
			return nil, fmt.Errorf("%w: %d outside 1-%d", ErrInvalidRange, p, total)
		}
		add(p)
	}
	return indices, nil
}

// SelectSlides returns the slides named by spec (see [ParseRange]).
// Selected slides keep their original Index and Title.
func SelectSlides(slides []Slide, spec string) ([]Slide, error) {
	if strings.TrimSpace(spec) == "" {
		return slides, nil
	}
	indices, err := ParseRange(spec, len(slides))
	if err != nil {
		return nil, err
	}
	out := make([]Slide, len(indices))
	for i, idx := range indices {
		out[i] = slides[idx]
	}
	return out, nil
}

// Package numbering compresses attachment sequence numbers into range notation.
package numbering

import (
	"slices"
	"strconv"
	"strings"
)

// Collapse dedupes and sorts nums, then renders maximal runs of consecutive
// integers as "start-end" and single numbers bare, joined by ", ".
// Any run of two or more numbers collapses, so [3,4] renders as "3-4".
func Collapse(nums []int) string {
	if len(nums) == 0 {
		return ""
	}
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var sb strings.Builder
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(start))
		if prev != start {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(prev))
		}
	}
	for _, n := range sorted[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()
	return sb.String()
}

// Package textdiff renders line-level unified diffs between two
// revisions of a descriptor.
package textdiff

import (
	"fmt"
	"strings"
)

// Context lines carried on each side of a hunk.
const contextLines = 3

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type op struct {
	kind opKind
	line string
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// diffLines computes a shortest edit script over whole lines, Myers
// with a full trace. Descriptor files are small enough that the
// O((N+M)*D) memory of the trace does not matter.
func diffLines(a, b []string) []op {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]op, m)
		for i, l := range b {
			ops[i] = op{opInsert, l}
		}
		return ops
	}
	if m == 0 {
		ops := make([]op, n)
		for i, l := range a {
			ops[i] = op{opDelete, l}
		}
		return ops
	}

	max := n + m
	v := make([]int, 2*max+1)
	var trace [][]int
	for d := 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			i := k + max
			var x int
			if k == -d || (k != d && v[i-1] < v[i+1]) {
				x = v[i+1]
			} else {
				x = v[i-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[i] = x
			if x >= n && y >= m {
				trace = append(trace, append([]int(nil), v...))
				return backtrack(trace, a, b, d)
			}
		}
		trace = append(trace, append([]int(nil), v...))
	}
	return nil
}

// backtrack walks the trace from the final point back to the origin,
// emitting the edit script in reverse.
func backtrack(trace [][]int, a, b []string, dFinal int) []op {
	n, m := len(a), len(b)
	max := n + m
	x, y := n, m
	var rev []op

	for d := dFinal; d > 0; d-- {
		k := x - y
		prev := trace[d-1]
		var pk int
		if k == -d || (k != d && prev[k-1+max] < prev[k+1+max]) {
			pk = k + 1
		} else {
			pk = k - 1
		}
		px := prev[pk+max]
		py := px - pk

		for x > px && y > py {
			x--
			y--
			rev = append(rev, op{opEqual, a[x]})
		}
		if x == px {
			y--
			rev = append(rev, op{opInsert, b[y]})
		} else {
			x--
			rev = append(rev, op{opDelete, a[x]})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		rev = append(rev, op{opEqual, a[x]})
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Unified renders a unified diff between two revisions, three lines
// of context per hunk, hunks merged when fewer than seven unchanged
// lines separate them. Identical inputs yield the empty string.
func Unified(name string, before, after []byte) string {
	ops := diffLines(splitLines(before), splitLines(after))
	changed := false
	for _, o := range ops {
		if o.kind != opEqual {
			changed = true
			break
		}
	}
	if !changed {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- a/%s\n", name)
	fmt.Fprintf(&out, "+++ b/%s\n", name)

	aLine, bLine := 1, 1
	i := 0
	for i < len(ops) {
		if ops[i].kind == opEqual {
			aLine++
			bLine++
			i++
			continue
		}

		start := i
		ctx := 0
		for start > 0 && ops[start-1].kind == opEqual && ctx < contextLines {
			start--
			ctx++
		}
		hunkA := aLine - ctx
		hunkB := bLine - ctx

		end := i
		equals := 0
		for j := i; j < len(ops); j++ {
			if ops[j].kind == opEqual {
				equals++
				if equals > contextLines*2 {
					break
				}
				continue
			}
			equals = 0
			end = j
		}
		stop := end + 1
		ctx = 0
		for stop < len(ops) && ops[stop].kind == opEqual && ctx < contextLines {
			stop++
			ctx++
		}

		var lines []string
		aCount, bCount := 0, 0
		for j := start; j < stop; j++ {
			switch ops[j].kind {
			case opEqual:
				lines = append(lines, " "+ops[j].line)
				aCount++
				bCount++
			case opDelete:
				lines = append(lines, "-"+ops[j].line)
				aCount++
			case opInsert:
				lines = append(lines, "+"+ops[j].line)
				bCount++
			}
		}
		startA, startB := hunkA, hunkB
		if aCount == 0 {
			startA--
		}
		if bCount == 0 {
			startB--
		}
		fmt.Fprintf(&out, "@@ -%d,%d +%d,%d @@\n", startA, aCount, startB, bCount)
		for _, l := range lines {
			out.WriteString(l)
			out.WriteByte('\n')
		}

		for j := i; j < stop; j++ {
			switch ops[j].kind {
			case opEqual:
				aLine++
				bLine++
			case opDelete:
				aLine++
			case opInsert:
				bLine++
			}
		}
		i = stop
	}
	return out.String()
}

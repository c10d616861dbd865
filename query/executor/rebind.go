package executor

import (
	"strconv"
	"strings"
)

// Rebind rewrites ? placeholders to $1..$n. Placeholders inside quoted
// literals, quoted identifiers and comments are left alone.
func Rebind(query string) string {
	offsets := placeholders(query)
	if len(offsets) == 0 {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 2*len(offsets))
	last := 0
	for i, off := range offsets {
		b.WriteString(query[last:off])
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(i + 1))
		last = off + 1
	}
	b.WriteString(query[last:])
	return b.String()
}

// placeholders returns the byte offsets of the ? placeholders in query,
// skipping quoted literals, quoted identifiers and -- comments
func placeholders(query string) []int {
	var offsets []int
	for i := 0; i < len(query); i++ {
		switch c := query[i]; c {
		case '\'', '"':
			i = closingQuote(query, i+1, c) - 1
		case '-':
			if i+1 < len(query) && query[i+1] == '-' {
				end := strings.IndexByte(query[i:], '\n')
				if end < 0 {
					return offsets
				}
				i += end
			}
		case '?':
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// closingQuote returns the index just past the quote closing the literal that
// starts at from. Doubled quotes are escapes.
func closingQuote(query string, from int, quote byte) int {
	for j := from; j < len(query); j++ {
		if query[j] != quote {
			continue
		}
		if j+1 < len(query) && query[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(query)
}

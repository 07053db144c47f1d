// Package diag implements the source-span error formatter (spec §4.B) and
// the error taxonomy of spec §7: one typed struct per diagnostic kind,
// each carrying the span(s) needed to produce a self-contained message.
package diag

import (
	"strconv"
	"strings"

	"github.com/simpla-lang/simplac/internal/ast"
)

// FormatSpan renders a line-number-prefixed excerpt of source covering the
// half-open span [span.Begin, span.End), following the line-walking
// algorithm of spec §4.B.
func FormatSpan(source string, span ast.Span) string {
	beginLine, endLine, excerptBegin, excerptEnd := locate(source, span.Begin, span.End)
	excerpt := source[excerptBegin:excerptEnd]
	if beginLine == endLine {
		return "Error on line: " + strconv.Itoa(beginLine+1) + "\n" + excerpt
	}
	return "Error from line: " + strconv.Itoa(beginLine+1) + " to line: " + strconv.Itoa(endLine+1) + "\n" + excerpt
}

// locate walks source line by line (split on "\n", line content excludes
// the newline) tracking the byte offset one past the end of each line's
// content. It returns the 0-based line numbers containing begin and
// end-1, and the byte range [excerptBegin, excerptEnd) spanning the start
// of the first line through the end of the last line.
func locate(source string, begin, end int) (beginLine, endLine, excerptBegin, excerptEnd int) {
	curBegin := 0
	lineNo := 0
	found := false

	for {
		nl := strings.IndexByte(source[curBegin:], '\n')
		var curEnd int
		if nl < 0 {
			curEnd = len(source)
		} else {
			curEnd = curBegin + nl
		}

		if !found && curEnd >= begin {
			beginLine = lineNo
			excerptBegin = curBegin
			found = true
		}
		if found && curEnd >= end {
			endLine = lineNo
			excerptEnd = curEnd
			return
		}

		if nl < 0 {
			// Ran off the end of source without reaching `end`; clamp.
			endLine = lineNo
			excerptEnd = curEnd
			return
		}
		curBegin = curEnd + 1
		lineNo++
	}
}

package parser

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// Block is the ordered run of lines that starts at one record header.
type Block []string

// Header returns the first line of the block.
func (b Block) Header() string {
	if len(b) == 0 {
		return ""
	}
	return b[0]
}

// recordHeaderPattern matches the date line opening every statement entry,
// e.g. "Jan 05, 2024".
var recordHeaderPattern = regexp.MustCompile(`^[A-Z][a-z]{2} \d{2}, 20\d{2}$`)

// isRecordHeader reports whether line starts a new block.
func isRecordHeader(line string) bool {
	return recordHeaderPattern.MatchString(line)
}

// Blocks splits text into blocks in a single pass. Lines before the first
// header form their own block; blank lines are kept.
func Blocks(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}

		var cur Block
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if isRecordHeader(line) {
				if len(cur) > 0 && !yield(cur) {
					return
				}
				cur = Block{line}
				continue
			}
			cur = append(cur, line)
		}
		if len(cur) > 0 {
			yield(cur)
		}
	}
}

// Segment collects Blocks(text).
func Segment(text string) []Block {
	return slices.Collect(Blocks(text))
}

// Package analysis prints profiling, cleaning and unique-value reports for
// frames. Every report is written to the Reporter's writer; the structured
// results are returned for callers that want the numbers.
package analysis

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// DefaultName labels frames reported without a name.
const DefaultName = "Unnamed_DataFrame"

// Options controls report size.
type Options struct {
	// PreviewRows is the number of head rows shown by Info.
	PreviewRows int
	// TopN caps the values listed by UniqueCount.
	TopN int
}

// DefaultOptions returns the standard report sizes.
func DefaultOptions() Options {
	return Options{PreviewRows: 3, TopN: 10}
}

// Reporter writes reports to w.
type Reporter struct {
	w   io.Writer
	opt Options
}

// New returns a Reporter. Non-positive option fields take their defaults.
func New(w io.Writer, opt Options) *Reporter {
	def := DefaultOptions()
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = def.PreviewRows
	}
	if opt.TopN <= 0 {
		opt.TopN = def.TopN
	}
	return &Reporter{w: w, opt: opt}
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// banner builds "---<title>-<name>" padded with dashes to lineLen runes,
// where lineLen is at least minLen.
func banner(title, name string, minLen int) string {
	if name == "" {
		name = DefaultName
	}
	n := utf8.RuneCountInString(name)
	lineLen := n + 10
	if lineLen < minLen {
		lineLen = minLen
	}
	return "---" + title + "-" + strings.ReplaceAll(name, " ", "-") + strings.Repeat("-", lineLen-n-10)
}

// lookup resolves a column or prints the not-found message.
func (r *Reporter) lookup(f *frame.Frame, column string) (*frame.Column, bool) {
	c, ok := f.Column(column)
	if !ok {
		r.printf("Column '%s' does not exist in the DataFrame.\n", column)
	}
	return c, ok
}

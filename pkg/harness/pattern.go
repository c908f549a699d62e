package harness

import (
	"fmt"
	"regexp"
)

// endAnchor is what gets appended to the caller's pattern. It is shown as "$" but
// matches like a non-multiline "$" in PCRE-style engines: at the end of the text or
// before a single newline that ends it.
const (
	endAnchor        = `\n?\z`
	displayEndAnchor = "$"
)

// Pattern matches a prefix of a text that runs to the end of the text. The raw
// expression is appended with an end anchor by plain concatenation, so in "a|b" only the
// "b" branch is anchored at the end, and the whole expression is anchored at the start.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// CompilePattern compiles raw, which uses RE2 syntax.
func CompilePattern(raw string) (*Pattern, error) {
	// Compiling the bare concatenation first rejects input such as "a)|(b" that would
	// otherwise close the wrapping group below and change its meaning.
	if _, err := regexp.Compile(raw + endAnchor); err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", raw, err)
	}
	re, err := regexp.Compile(`\A(?:` + raw + endAnchor + `)`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", raw, err)
	}
	return &Pattern{raw: raw, re: re}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(raw string) *Pattern {
	p, err := CompilePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the pattern matches text starting at its first byte.
func (p *Pattern) Match(text string) bool {
	return p.re.MatchString(text)
}

// Raw returns the pattern as supplied by the caller.
func (p *Pattern) Raw() string {
	return p.raw
}

// String returns the anchored pattern as it appears in diagnostics, e.g. "42$".
func (p *Pattern) String() string {
	return p.raw + displayEndAnchor
}

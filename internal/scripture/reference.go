package scripture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reference is a parsed scripture pointer such as "Luke 15:4-6" or
// "Genesis 1:1-2:3". Zero Verse means a whole chapter.
type Reference struct {
	Book       string
	Chapter    int
	Verse      int
	EndChapter int // set only when the range crosses into another chapter
	EndVerse   int
}

// referenceGrammar accepts "Book C:V-V", "Book C:V-C:V", "Book C", dotted
// "Book.C.V" and the spaced "Book : C : V - V" form language models like to emit.
//
//nolint:govet // participle grammar tags are not standard struct tags
type referenceGrammar struct {
	Number  *int      `parser:"@Int?"`
	Words   []string  `parser:"@Word+"`
	Chapter int       `parser:"\":\"? @Int"`
	Verse   *int      `parser:"( (\":\" | \".\") @Int"`
	End     *rangeEnd `parser:"  ( (\"-\" | \"–\" | \"—\") @@ )? )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangeEnd struct {
	First  int  `parser:"@Int"`
	Second *int `parser:"( (\":\" | \".\") @Int )?"`
}

var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-Za-z]+\.?`},
	{Name: "Punct", Pattern: `[:.,\-–—]`},
})

var referenceParser = participle.MustBuild[referenceGrammar](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses a human-readable scripture reference. Book names
// are normalized to their canonical spelling when recognized.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	if s == "" {
		return Reference{}, fmt.Errorf("empty reference")
	}

	parsed, err := referenceParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid reference %q: %w", s, err)
	}

	words := make([]string, 0, len(parsed.Words)+1)
	if parsed.Number != nil {
		words = append(words, strconv.Itoa(*parsed.Number))
	}
	for _, w := range parsed.Words {
		words = append(words, strings.TrimSuffix(w, "."))
	}

	ref := Reference{
		Book:    normalizeBook(strings.Join(words, " ")),
		Chapter: parsed.Chapter,
	}
	if parsed.Verse != nil {
		ref.Verse = *parsed.Verse
		if parsed.End != nil {
			if parsed.End.Second != nil {
				ref.EndChapter = parsed.End.First
				ref.EndVerse = *parsed.End.Second
			} else {
				ref.EndVerse = parsed.End.First
			}
		}
	}

	if ref.Chapter == 0 {
		return Reference{}, fmt.Errorf("invalid reference %q: chapter must be positive", s)
	}
	return ref, nil
}

// String renders the reference as "Book Chapter:Verse-EndVerse".
func (r Reference) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(r.Chapter))

	if r.Verse > 0 {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(r.Verse))

		switch {
		case r.EndChapter > 0:
			fmt.Fprintf(&sb, "-%d:%d", r.EndChapter, r.EndVerse)
		case r.EndVerse > 0 && r.EndVerse != r.Verse:
			fmt.Fprintf(&sb, "-%d", r.EndVerse)
		}
	}
	return sb.String()
}

// Canonicalize returns the canonical form of s when it parses as a
// reference, and s (trimmed) unchanged when it does not.
func Canonicalize(s string) string {
	ref, err := ParseReference(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return ref.String()
}

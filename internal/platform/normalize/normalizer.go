// Package normalize turns free-text team and venue names into comparison
// keys. All functions are pure: the same input always yields the same key.
package normalize

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultTable []byte

const (
	minContainLen = 5
	exactPrefix   = "="
)

var (
	joinerPattern = regexp.MustCompile(`\s+de\s+`)
	clubForms     = regexp.MustCompile(`(?i)\s*\b(futebol\s+clube|esporte\s+clube|sport\s+club|atl[eé]tico\s+clube|associa[cç][aã]o\s+desportiva|club\s+f[uú]tbol|club\s+deportivo|real\s+club|f[uú]tbol\s+club)\b`)
)

// Table is the alias document: canonical team key to aliases, plus the venue
// words to drop.
type Table struct {
	Teams      map[string][]string `yaml:"teams"`
	VenueWords []string            `yaml:"venue_words"`
}

func ParseTable(data []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("parse alias table: %w", err)
	}
	return table, nil
}

type alias struct {
	text      string
	canonical string
}

type Normalizer struct {
	exact      map[string]string
	contained  []alias
	venueWords *regexp.Regexp
}

// New builds a Normalizer from the embedded table merged with extra tables.
// Conflicting aliases are rejected so that folding stays idempotent.
func New(extra ...Table) (*Normalizer, error) {
	base, err := ParseTable(defaultTable)
	if err != nil {
		return nil, err
	}
	return build(append([]Table{base}, extra...))
}

// MustNew is New for the embedded table only.
func MustNew() *Normalizer {
	n, err := New()
	if err != nil {
		panic(err)
	}
	return n
}

func build(tables []Table) (*Normalizer, error) {
	n := &Normalizer{exact: make(map[string]string)}
	owner := func(text, canonical string) error {
		if prev, ok := n.exact[text]; ok && prev != canonical {
			return fmt.Errorf("alias %q maps to both %q and %q", text, prev, canonical)
		}
		n.exact[text] = canonical
		return nil
	}

	var words []string
	for _, table := range tables {
		for rawCanonical, aliases := range table.Teams {
			canonical := stripKey(rawCanonical)
			if canonical == "" {
				continue
			}
			if err := owner(canonical, canonical); err != nil {
				return nil, err
			}
			for _, raw := range aliases {
				exactOnly := strings.HasPrefix(raw, exactPrefix)
				text := stripKey(strings.TrimPrefix(raw, exactPrefix))
				if text == "" {
					continue
				}
				if err := owner(text, canonical); err != nil {
					return nil, err
				}
				if !exactOnly && len(text) >= minContainLen {
					n.contained = append(n.contained, alias{text: text, canonical: canonical})
				}
			}
			if len(canonical) >= minContainLen {
				n.contained = append(n.contained, alias{text: canonical, canonical: canonical})
			}
		}
		for _, word := range table.VenueWords {
			if word = stripKey(word); word != "" {
				words = append(words, word)
			}
		}
	}

	sort.SliceStable(n.contained, func(i, j int) bool {
		if len(n.contained[i].text) != len(n.contained[j].text) {
			return len(n.contained[i].text) > len(n.contained[j].text)
		}
		return n.contained[i].text < n.contained[j].text
	})

	if len(words) > 0 {
		sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
		quoted := make([]string, 0, len(words))
		for _, word := range words {
			quoted = append(quoted, regexp.QuoteMeta(word))
		}
		n.venueWords = regexp.MustCompile(strings.Join(quoted, "|"))
	}
	return n, nil
}

// Name returns the comparison key of a team name: lower-cased, accents and
// punctuation removed, folded onto a canonical key when a known alias
// matches.
func (n *Normalizer) Name(text string) string {
	key := stripKey(text)
	if key == "" {
		return ""
	}
	if canonical, ok := n.exact[key]; ok {
		return canonical
	}
	for _, a := range n.contained {
		if strings.Contains(key, a.text) {
			return a.canonical
		}
	}
	return key
}

// Venue returns the comparison key of a stadium name. Generic venue words
// are dropped; venues have no alias table.
func (n *Normalizer) Venue(text string) string {
	key := stripKey(text)
	if key == "" || n.venueWords == nil {
		return key
	}
	return n.venueWords.ReplaceAllString(key, "")
}

// CleanTeamName removes club-form words ("Futebol Clube", "Sport Club", ...)
// for display and lookup. The result is still human readable.
func CleanTeamName(text string) string {
	cleaned := joinerPattern.ReplaceAllString(text, " ")
	cleaned = clubForms.ReplaceAllString(cleaned, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Slug renders text as a lowercase URL segment: accents dropped and every
// run of other characters collapsed into a single dash.
func Slug(text string) string {
	folded := strings.ToLower(removeMarks(text))
	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

func removeMarks(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func stripKey(text string) string {
	if text == "" {
		return ""
	}
	folded := joinerPattern.ReplaceAllString(strings.ToLower(removeMarks(text)), " ")

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

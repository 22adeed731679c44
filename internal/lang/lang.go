// Package lang holds the static language catalog and the prebuilt voice
// names offered for speech synthesis.
package lang

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the source selector that lets the provider detect the language.
// It is never a valid target.
const Auto = "auto"

var (
	// ErrUnknownLanguage is returned when a code is not in the catalog.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrAutoTarget is returned when auto-detect is used as a target.
	ErrAutoTarget = errors.New("auto-detect cannot be a target language")
)

// Language is one entry of the catalog.
type Language struct {
	Code   string `json:"code"   yaml:"code"`
	Name   string `json:"name"   yaml:"name"`
	Native string `json:"native" yaml:"native"`
}

// Label is the picker label: "Name (Native)", or just the name when both
// are the same.
func (l Language) Label() string {
	if l.Native == "" || l.Native == l.Name {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Native)
}

var builtin = []Language{
	{Auto, "Detect Language", "Auto"},
	{"en", "English", "English"},
	{"es", "Spanish", "Español"},
	{"fr", "French", "Français"},
	{"de", "German", "Deutsch"},
	{"it", "Italian", "Italiano"},
	{"pt", "Portuguese", "Português"},
	{"nl", "Dutch", "Nederlands"},
	{"ru", "Russian", "Русский"},
	{"uk", "Ukrainian", "Українська"},
	{"pl", "Polish", "Polski"},
	{"sv", "Swedish", "Svenska"},
	{"tr", "Turkish", "Türkçe"},
	{"el", "Greek", "Ελληνικά"},
	{"ar", "Arabic", "العربية"},
	{"he", "Hebrew", "עברית"},
	{"hi", "Hindi", "हिन्दी"},
	{"bn", "Bengali", "বাংলা"},
	{"ja", "Japanese", "日本語"},
	{"ko", "Korean", "한국어"},
	{"zh", "Chinese (Simplified)", "简体中文"},
	{"zh-TW", "Chinese (Traditional)", "繁體中文"},
	{"vi", "Vietnamese", "Tiếng Việt"},
	{"th", "Thai", "ไทย"},
	{"id", "Indonesian", "Bahasa Indonesia"},
	{"ms", "Malay", "Bahasa Melayu"},
	{"fa", "Persian", "فارسی"},
	{"sw", "Swahili", "Kiswahili"},
}

// Catalog is an immutable, ordered set of languages keyed by code.
type Catalog struct {
	langs []Language
	index map[string]int
}

// Default returns the builtin catalog.
func Default() *Catalog {
	c, _ := NewCatalog(nil)
	return c
}

// NewCatalog returns the builtin catalog extended with extra BCP 47 codes.
// Names for extra codes come from x/text: the English name and the
// language's name for itself. Codes already present are skipped.
func NewCatalog(extra []string) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(builtin)+len(extra))}
	for _, l := range builtin {
		c.add(l)
	}
	for _, code := range extra {
		code = strings.TrimSpace(code)
		if code == "" || code == Auto {
			continue
		}
		if _, ok := c.index[code]; ok {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language code %q: %w", code, err)
		}
		c.add(Language{
			Code:   code,
			Name:   display.English.Tags().Name(tag),
			Native: display.Self.Name(tag),
		})
	}
	return c, nil
}

func (c *Catalog) add(l Language) {
	c.index[l.Code] = len(c.langs)
	c.langs = append(c.langs, l)
}

// Lookup returns the language for code.
func (c *Catalog) Lookup(code string) (Language, bool) {
	i, ok := c.index[code]
	if !ok {
		return Language{}, false
	}
	return c.langs[i], true
}

// Name returns the English name for code, or the code itself when unknown.
func (c *Catalog) Name(code string) string {
	if l, ok := c.Lookup(code); ok {
		return l.Name
	}
	return code
}

// Sources returns every language, auto-detect first.
func (c *Catalog) Sources() []Language {
	out := make([]Language, len(c.langs))
	copy(out, c.langs)
	return out
}

// Targets returns every language except the auto-detect sentinel.
func (c *Catalog) Targets() []Language {
	out := make([]Language, 0, len(c.langs))
	for _, l := range c.langs {
		if l.Code != Auto {
			out = append(out, l)
		}
	}
	return out
}

// ValidateSource checks that code may be used as a source selector.
func (c *Catalog) ValidateSource(code string) error {
	if _, ok := c.Lookup(code); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return nil
}

// ValidateTarget checks that code may be used as a target.
func (c *Catalog) ValidateTarget(code string) error {
	if code == Auto {
		return ErrAutoTarget
	}
	if _, ok := c.Lookup(code); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return nil
}

type languageSource []Language

func (s languageSource) String(i int) string {
	return s[i].Code + " " + s[i].Name + " " + s[i].Native
}

func (s languageSource) Len() int { return len(s) }

// Filter returns the languages in langs matching query, best match first.
// An empty query returns langs unchanged.
func Filter(langs []Language, query string) []Language {
	query = strings.TrimSpace(query)
	if query == "" {
		return langs
	}
	matches := fuzzy.FindFrom(query, languageSource(langs))
	out := make([]Language, 0, len(matches))
	for _, m := range matches {
		out = append(out, langs[m.Index])
	}
	return out
}

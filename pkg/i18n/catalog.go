package i18n

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-preview/pkg/apperrors"
)

// Bundle is the on-disk shape of a translations file:
//
//	locales:
//	  en:
//	    invalid_value: Invalid value
//	  de:
//	    invalid_value: Ungültiger Wert
type Bundle struct {
	Locales map[string]Translations `yaml:"locales"`
}

// Catalog resolves translations for a requested locale.
// It is safe for concurrent use; Replace swaps the contents atomically.
type Catalog struct {
	mu            sync.RWMutex
	defaultLocale language.Tag
	tags          []language.Tag
	byTag         map[language.Tag]Translations
	matcher       language.Matcher
	generation    uint64
}

// Match is the outcome of resolving an Accept-Language header.
type Match struct {
	Translations Translations
	Locale       string
	// Generation counts installs; it changes on every Replace.
	Generation uint64
}

// NewCatalog creates a catalog holding only the built-in English labels
// until a bundle is loaded.
func NewCatalog(defaultLocale string) (*Catalog, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}
	c := &Catalog{defaultLocale: tag}
	c.install(map[language.Tag]Translations{tag: DefaultTranslations()})
	return c, nil
}

// LoadBundle reads a YAML bundle file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations bundle: %w", err)
	}
	return ParseBundle(data)
}

// ParseBundle decodes a YAML bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse translations bundle: %w", err)
	}
	if len(b.Locales) == 0 {
		return nil, fmt.Errorf("translations bundle has no locales: %w", apperrors.ErrLocaleNotFound)
	}
	return &b, nil
}

// Replace installs the locales of b. Missing labels fall back to English.
// The default locale is always present.
func (c *Catalog) Replace(b *Bundle) error {
	byTag := make(map[language.Tag]Translations, len(b.Locales)+1)
	for locale, t := range b.Locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("invalid locale %q in bundle: %w", locale, err)
		}
		byTag[tag] = t.withDefaults()
	}
	if _, ok := byTag[c.defaultLocale]; !ok {
		byTag[c.defaultLocale] = DefaultTranslations()
	}
	c.install(byTag)
	return nil
}

func (c *Catalog) install(byTag map[language.Tag]Translations) {
	// The matcher falls back to its first tag, so the default goes first.
	tags := make([]language.Tag, 0, len(byTag))
	for tag := range byTag {
		if tag != c.defaultLocale {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	tags = append([]language.Tag{c.defaultLocale}, tags...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = tags
	c.byTag = byTag
	c.matcher = language.NewMatcher(tags)
	c.generation++
}

// Match returns the best translations for an Accept-Language header value,
// the locale that was chosen and the generation they were read from.
func (c *Catalog) Match(acceptLanguage string) Match {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, index := language.MatchStrings(c.matcher, acceptLanguage)
	tag := c.tags[index]
	return Match{Translations: c.byTag[tag], Locale: tag.String(), Generation: c.generation}
}

// Generation returns the number of installs so far.
func (c *Catalog) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Locale returns the translations of an exact locale.
func (c *Catalog) Locale(locale string) (Translations, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Translations{}, fmt.Errorf("invalid locale %q: %w: %w", locale, apperrors.ErrLocaleNotFound, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byTag[tag]
	if !ok {
		return Translations{}, fmt.Errorf("locale %q: %w", locale, apperrors.ErrLocaleNotFound)
	}
	return t, nil
}

// Locales lists the installed locales, default first.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.tags))
	for i, tag := range c.tags {
		out[i] = tag.String()
	}
	return out
}

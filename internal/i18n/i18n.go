// Package i18n translates UI labels from embedded YAML catalogs.
//
// Keys are dotted paths ("navigation.settings"). A missing key, or one
// that names a section instead of a string, translates to itself.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Fallback is used when no supported language matches.
const Fallback = "fr"

var supported = []language.Tag{language.French, language.English, language.German}

var matcher = language.NewMatcher(supported)

// Translator looks up labels in one active catalog.
type Translator struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]any
	keys     map[string][]string
	lang     string
}

// New loads every embedded catalog and activates lang.
func New(lang string) (*Translator, error) {
	tr := &Translator{
		catalogs: make(map[string]map[string]any),
		keys:     make(map[string][]string),
	}
	for _, tag := range supported {
		base, _ := tag.Base()
		code := base.String()
		raw, err := locales.ReadFile(path.Join("locales", code+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", code, err)
		}
		var cat map[string]any
		if err := yaml.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("parse %s catalog: %w", code, err)
		}
		tr.catalogs[code] = cat
		tr.keys[code] = flatten("", cat, nil)
	}
	tr.SetLanguage(lang)
	return tr, nil
}

// Match negotiates a supported language code from a tag such as
// "en-US" or "de_CH". Unknown or malformed input gives Fallback.
func Match(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return Fallback
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// SetLanguage activates the best match for lang and returns its code.
func (tr *Translator) SetLanguage(lang string) string {
	code := Match(lang)
	tr.mu.Lock()
	tr.lang = code
	tr.mu.Unlock()
	return code
}

// Language returns the active language code.
func (tr *Translator) Language() string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.lang
}

// T translates key in the active language.
func (tr *Translator) T(key string) string {
	tr.mu.RLock()
	cat := tr.catalogs[tr.lang]
	tr.mu.RUnlock()

	var value any = cat
	for _, k := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return key
		}
		if value, ok = m[k]; !ok {
			return key
		}
	}
	if s, ok := value.(string); ok {
		return s
	}
	return key
}

// Keys returns every translatable key of the active catalog, sorted.
func (tr *Translator) Keys() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return append([]string(nil), tr.keys[tr.lang]...)
}

// Suggest returns the known key closest to key, or false when nothing
// is close enough.
func (tr *Translator) Suggest(key string) (string, bool) {
	return Closest(key, tr.Keys())
}

// Closest returns the candidate with the smallest edit distance to
// word. Candidates further than a third of word's length (minimum 2)
// are ignored. Comparison is case-insensitive.
func Closest(word string, candidates []string) (string, bool) {
	limit := max(len(word)/3, 2)
	best, bestDist := "", limit+1
	lw := strings.ToLower(word)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lw, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

// Title capitalises a label such as a Ren'Py language folder name.
func Title(s string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(s, "_", " "))
}

func flatten(prefix string, m map[string]any, out []string) []string {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			out = flatten(key, child, out)
		case string:
			out = append(out, key)
		}
	}
	if prefix == "" {
		sort.Strings(out)
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultTr   *Translator
)

// Default returns the process-wide translator, created in French.
func Default() *Translator {
	defaultOnce.Do(func() {
		tr, err := New(Fallback)
		if err != nil {
			panic(fmt.Sprintf("i18n: embedded catalogs: %v", err))
		}
		defaultTr = tr
	})
	return defaultTr
}

// T translates key with the default translator.
func T(key string) string { return Default().T(key) }

// SetLanguage switches the default translator.
func SetLanguage(lang string) string { return Default().SetLanguage(lang) }

// Language returns the default translator's language.
func Language() string { return Default().Language() }

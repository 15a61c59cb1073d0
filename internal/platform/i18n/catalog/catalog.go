// Package catalog loads the embedded locale message catalogs used for
// rendered roll labels and user-facing error messages, and registers them
// with golang.org/x/text/message.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog must fully translate.
const BaseLocale = "en-US"

// file is one locales/<locale>/<namespace>.yaml document.
type file struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the merged messages of every locale.
type Bundle struct {
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle. Its messages are
// registered with x/text/message.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads every locales/*/*.yaml file under fsys. The path must
// agree with the declared locale and namespace, keys are unique per locale,
// "core." keys live in the core namespace, and every locale translates each
// base-locale key.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{messages: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.merge(p, f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	if err := b.checkCoverage(); err != nil {
		return nil, err
	}
	b.index()
	return b, nil
}

func (b *Bundle) merge(p string, f file) error {
	locale := strings.TrimSpace(f.Locale)
	namespace := strings.TrimSpace(f.Namespace)
	switch {
	case locale == "":
		return fmt.Errorf("locale is required")
	case locale != path.Base(path.Dir(p)):
		return fmt.Errorf("locale %q does not match its directory", locale)
	case namespace == "":
		return fmt.Errorf("namespace is required")
	case namespace != strings.TrimSuffix(path.Base(p), path.Ext(p)):
		return fmt.Errorf("namespace %q does not match its file name", namespace)
	case len(f.Messages) == 0:
		return fmt.Errorf("messages are required")
	}

	messages, ok := b.messages[locale]
	if !ok {
		messages = map[string]string{}
		b.messages[locale] = messages
	}
	for key, value := range f.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("blank message key")
		}
		if strings.HasPrefix(key, "core.") && namespace != "core" {
			return fmt.Errorf("key %q belongs in the core namespace", key)
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("duplicate key %q in locale %s", key, locale)
		}
		messages[key] = value
	}
	return nil
}

func (b *Bundle) checkCoverage() error {
	base, ok := b.messages[BaseLocale]
	if !ok {
		return fmt.Errorf("base locale %s has no catalogs", BaseLocale)
	}
	for _, locale := range b.Locales() {
		for key := range base {
			if _, ok := b.messages[locale][key]; !ok {
				return fmt.Errorf("locale %s is missing key %q", locale, key)
			}
		}
	}
	return nil
}

// index builds the matcher with the base locale first so it is the fallback.
func (b *Bundle) index() {
	b.tags = []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale == BaseLocale {
			continue
		}
		if tag, err := language.Parse(locale); err == nil {
			b.tags = append(b.tags, tag)
		}
	}
	b.matcher = language.NewMatcher(b.tags)
}

// Register publishes every message with x/text/message under its locale
// tag and, when different, the locale's base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if short := language.Make(base.String()); short.String() != tag.String() {
				tags = append(tags, short)
			}
		}
		for key, value := range b.messages[locale] {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Message returns key in the closest loaded locale, falling back to the
// base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if value, ok := b.messages[b.MatchTag(locale).String()][key]; ok {
		return value, true
	}
	value, ok := b.messages[BaseLocale][key]
	return value, ok
}

// Printer returns an x/text printer for the closest loaded locale.
// Unknown or blank locales resolve to BaseLocale.
func (b *Bundle) Printer(locale string) *message.Printer {
	return message.NewPrinter(b.MatchTag(locale))
}

// MatchTag resolves a requested locale against the loaded locales.
func (b *Bundle) MatchTag(locale string) language.Tag {
	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return b.tags[0]
	}
	_, index, confidence := b.matcher.Match(requested)
	if confidence == language.No {
		return b.tags[0]
	}
	return b.tags[index]
}

// Expand fills {{.name}} placeholders in a catalog message from metadata.
// Messages that fail to parse are returned unchanged.
func Expand(msg string, metadata map[string]string) string {
	if len(metadata) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	tmpl, err := template.New("msg").Option("missingkey=zero").Parse(msg)
	if err != nil {
		return msg
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return msg
	}
	return buf.String()
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

// Package locale provides localized labels for navigation state, used by
// renderers and log output. English and German are bundled.
package locale

import (
	"embed"
	"fmt"

	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Supported lists the bundled languages. The first entry is the fallback.
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// Localizer resolves labels for one negotiated language.
type Localizer struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New returns a Localizer for the best match among the preferred languages,
// given as BCP 47 tags or Accept-Language strings. Unknown or empty
// preferences fall back to English.
func New(preferred ...string) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, name := range []string{"locales/active.en.toml", "locales/active.de.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}

	var tags []language.Tag
	for _, p := range preferred {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}

	_, index, _ := matcher.Match(tags...)
	tag := Supported[index]

	return &Localizer{
		tag:       tag,
		localizer: i18n.NewLocalizer(bundle, tag.String()),
	}, nil
}

// Language returns the negotiated language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Option returns the label for a presentation option.
func (l *Localizer) Option(option router.PresentationOption) string {
	return l.message("option_" + option.String())
}

// Operation returns the label for a change operation.
func (l *Localizer) Operation(op router.Op) string {
	return l.message("op_" + op.String())
}

// Root returns the label for the root route.
func (l *Localizer) Root() string {
	return l.message("state_root")
}

// Empty returns the label for an empty slot or stack.
func (l *Localizer) Empty() string {
	return l.message("state_empty")
}

// Depth returns a pluralized stack depth label.
func (l *Localizer) Depth(n int) string {
	s, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    "state_depth",
		PluralCount:  n,
		TemplateData: map[string]int{"Count": n},
	})
	if err != nil {
		return fmt.Sprintf("%d", n)
	}
	return s
}

// message falls back to the message ID so a missing translation never
// blanks out a label.
func (l *Localizer) message(id string) string {
	s, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return s
}

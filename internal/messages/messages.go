// Package messages renders engine status codes as text for the player.
// The game ships one locale; the catalog lives in locales/.
package messages

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	engine "github.com/jason-s-yu/crazyeights/engine"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Locale is the only language the catalog carries.
var Locale = language.English

// Catalog turns engine statuses into display strings.
type Catalog struct {
	localizer *i18n.Localizer
}

// New loads the embedded catalog.
func New() (*Catalog, error) {
	bundle := i18n.NewBundle(Locale)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if _, err := bundle.LoadMessageFileFS(localeFS, "locales/active.en.toml"); err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}
	return &Catalog{localizer: i18n.NewLocalizer(bundle, Locale.String())}, nil
}

// MustNew is New for package-level setup; the catalog is embedded so a
// failure is a build problem.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// SuitName returns the spelled-out suit name, e.g. "Hearts".
func (c *Catalog) SuitName(s engine.Suit) string {
	var id string
	switch s {
	case engine.SuitHearts:
		id = "suit_hearts"
	case engine.SuitDiamonds:
		id = "suit_diamonds"
	case engine.SuitClubs:
		id = "suit_clubs"
	case engine.SuitSpades:
		id = "suit_spades"
	default:
		return s.String()
	}
	return c.localize(id, nil)
}

// Status renders s. Unknown codes fall back to the code name.
func (c *Catalog) Status(s engine.Status) string {
	data := map[string]string{
		"Suit": fmt.Sprintf("%s %s", s.Suit, c.SuitName(s.Suit)),
	}
	if s.Card != nil {
		data["Card"] = s.Card.String()
	}
	return c.localize("status_"+s.Code.String(), data)
}

func (c *Catalog) localize(id string, data map[string]string) string {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

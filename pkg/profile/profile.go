// Package profile holds the per-site settings applied after conversion:
// which hosts count as internal links, the reusable block appended to every
// article, and the style classes and call-to-action defaults of the site.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a profile id is not in the table.
var ErrNotFound = errors.New("profile not found")

// Profile is one target site.
type Profile struct {
	// ID is the lookup key, matched case-insensitively.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name is a human-readable label.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Host is the site's canonical host. Links to it (with or without a
	// leading "www.") are internal.
	Host string `json:"host" yaml:"host" validate:"required,hostname_rfc1123"`

	// Aliases are extra hosts treated as internal.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" validate:"dive,hostname_rfc1123"`

	// TrailingBlockRef is the reusable block appended to every article.
	// Zero disables the trailing block.
	TrailingBlockRef int `json:"trailing_block_ref" yaml:"trailing_block_ref" validate:"gte=0"`

	// HeadingClass is added to ordinary headings.
	HeadingClass string `json:"heading_class,omitempty" yaml:"heading_class,omitempty"`

	// ListClass is added to content lists.
	ListClass string `json:"list_class,omitempty" yaml:"list_class,omitempty"`

	// CTAURL is the button target when a call-to-action carries no link.
	CTAURL string `json:"cta_url,omitempty" yaml:"cta_url,omitempty" validate:"omitempty,url"`

	// ButtonColor is the palette slug for generated buttons.
	ButtonColor string `json:"button_color,omitempty" yaml:"button_color,omitempty"`
}

var validate = validator.New()

// Validate checks the profile's fields.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatValidationError(e))
			}
			return fmt.Errorf("profile %q: %s", p.ID, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "hostname_rfc1123":
		return fmt.Sprintf("%s %q is not a valid host name", e.Field(), e.Value())
	case "url":
		return fmt.Sprintf("%s %q is not a valid URL", e.Field(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}

// IsInternal reports whether href points at this profile's site. Relative
// links, fragments and non-http schemes are internal.
func (p *Profile) IsInternal(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return true
	}
	switch {
	case u.Scheme == "" && u.Host == "":
		return true
	case u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https":
		return true
	}
	host := normalizeHost(u.Hostname())
	if host == normalizeHost(p.Host) {
		return true
	}
	for _, a := range p.Aliases {
		if host == normalizeHost(a) {
			return true
		}
	}
	return false
}

func normalizeHost(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www.")
}

// Table is a set of profiles keyed by lowercase id.
type Table struct {
	byID  map[string]Profile
	order []string
}

// NewTable builds a table from profiles. Later entries replace earlier ones
// with the same id.
func NewTable(profiles ...Profile) *Table {
	t := &Table{byID: make(map[string]Profile)}
	for _, p := range profiles {
		t.Put(p)
	}
	return t
}

// Put adds or replaces a profile.
func (t *Table) Put(p Profile) {
	key := strings.ToLower(p.ID)
	if _, ok := t.byID[key]; !ok {
		t.order = append(t.order, key)
	}
	t.byID[key] = p
}

// Lookup finds a profile by id, case-insensitively.
func (t *Table) Lookup(id string) (*Profile, error) {
	p, ok := t.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrNotFound, id, strings.Join(t.IDs(), ", "))
	}
	return &p, nil
}

// All returns the profiles in insertion order.
func (t *Table) All() []Profile {
	out := make([]Profile, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.byID[k])
	}
	return out
}

// IDs returns the profile ids sorted.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.order))
	for _, k := range t.order {
		ids = append(ids, t.byID[k].ID)
	}
	sort.Strings(ids)
	return ids
}

// File is the on-disk form of a profile override file.
type File struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile reads a YAML profile file and merges it over the built-in table.
// Entries with an existing id replace the built-in profile.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Load(data)
}

// Load parses YAML profile data and merges it over the built-in table.
func Load(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	t := Builtin()
	for i := range f.Profiles {
		p := f.Profiles[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		t.Put(p)
	}
	return t, nil
}

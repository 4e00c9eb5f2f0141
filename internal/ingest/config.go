package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultDateLayout is used when a Config leaves DateLayout empty.
const DefaultDateLayout = "2006-01-02"

var validate = validator.New()

// Config maps the columns of one institution's CSV export. Positions are zero
// indexed and are never inferred from header names.
//
// Exports that split money in and money out set DebitPosition; the amount is
// then the AmountPosition column minus the debit column, an empty cell in
// either counting as zero.
type Config struct {
	Institution         string `yaml:"institution" validate:"required"`
	DatePosition        int    `yaml:"date" validate:"gte=0"`
	AmountPosition      int    `yaml:"amount" validate:"gte=0"`
	DebitPosition       *int   `yaml:"debit" validate:"omitempty,gte=0"`
	DescriptionPosition int    `yaml:"description" validate:"gte=0"`
	DateLayout          string `yaml:"date_layout"`
	SkipHeader          bool   `yaml:"skip_header"`
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid ingest config: %w", err)
	}
	return nil
}

func (c Config) dateLayout() string {
	if c.DateLayout == "" {
		return DefaultDateLayout
	}
	return c.DateLayout
}

// Profiles holds the known institution configs by lower-case name.
type Profiles map[string]Config

// DefaultProfiles returns the built-in institution configs.
func DefaultProfiles() Profiles {
	return Profiles{
		"default": {
			Institution:         "Default",
			DatePosition:        0,
			AmountPosition:      1,
			DescriptionPosition: 2,
			DateLayout:          DefaultDateLayout,
		},
		"lloyds": {
			Institution:         "Lloyds",
			DatePosition:        0,
			DescriptionPosition: 4,
			DebitPosition:       position(5),
			AmountPosition:      6,
			DateLayout:          "02/01/2006",
			SkipHeader:          true,
		},
		"amex": {
			Institution:         "Amex",
			DatePosition:        0,
			DescriptionPosition: 1,
			AmountPosition:      4,
			DateLayout:          "02/01/2006",
			SkipHeader:          true,
		},
	}
}

func position(i int) *int {
	return &i
}

func (p Profiles) Lookup(name string) (Config, bool) {
	cfg, ok := p[strings.ToLower(strings.TrimSpace(name))]
	return cfg, ok
}

// LoadProfiles reads a YAML file of institution configs keyed by profile name
// and merges it over the built-in profiles. An empty path yields the
// built-ins.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return mergeProfiles(profiles, data)
}

func mergeProfiles(profiles Profiles, data []byte) (Profiles, error) {
	var loaded map[string]Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	for name, cfg := range loaded {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		profiles[strings.ToLower(name)] = cfg
	}
	return profiles, nil
}

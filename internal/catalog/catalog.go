// Package catalog loads the seed data the service starts with: the demo
// user, default settings, the tip catalog and the badge rule table.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"greensteps/internal/badge"
	"greensteps/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

type BadgeSeed struct {
	domain.Badge `yaml:",inline"`
	Rule         badge.Rule `yaml:"rule"`
}

type Seed struct {
	User     domain.User     `yaml:"user"`
	Settings domain.Settings `yaml:"settings"`
	Tips     []domain.Tip    `yaml:"tips"`
	Badges   []BadgeSeed     `yaml:"badges"`
}

// Default returns the embedded seed catalog.
func Default() (*Seed, error) {
	return Parse(defaultSeed)
}

func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed catalog: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed catalog: %w", err)
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	if s.User.ID == 0 || s.User.Username == "" {
		return fmt.Errorf("user id and username are required")
	}

	tipIDs := make(map[int64]bool, len(s.Tips))
	for _, t := range s.Tips {
		if t.ID == 0 || tipIDs[t.ID] {
			return fmt.Errorf("tip %d: missing or duplicate id", t.ID)
		}
		tipIDs[t.ID] = true
		if !t.Difficulty.Valid() {
			return fmt.Errorf("tip %d: unknown difficulty %q", t.ID, t.Difficulty)
		}
		if t.Category == "" {
			return fmt.Errorf("tip %d: category is required", t.ID)
		}
	}

	for _, b := range s.Badges {
		if b.ID == 0 {
			return fmt.Errorf("badge %q: id is required", b.Name)
		}
	}
	// Duplicate ids and bad rules are caught here too.
	if _, err := badge.NewEvaluator(s.Definitions()); err != nil {
		return err
	}
	return nil
}

// Definitions returns the badge rule table.
func (s *Seed) Definitions() []badge.Definition {
	defs := make([]badge.Definition, 0, len(s.Badges))
	for _, b := range s.Badges {
		defs = append(defs, badge.Definition{Badge: b.Badge, Rule: b.Rule})
	}
	return defs
}

// BadgeList returns the badge catalog without rules.
func (s *Seed) BadgeList() []domain.Badge {
	badges := make([]domain.Badge, 0, len(s.Badges))
	for _, b := range s.Badges {
		badges = append(badges, b.Badge)
	}
	return badges
}

// Marshal renders the seed back to YAML.
func (s *Seed) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

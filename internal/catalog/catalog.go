// Package catalog loads the read-only game content: actions, species,
// roles, backgrounds, items, creatures and scenarios. Content is YAML; the
// default set is embedded in the binary and loaded once.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"log"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

//go:embed content/*.yaml
var embedded embed.FS

// Content file names inside a catalog directory
const (
	ActionsFile     = "actions.yaml"
	SpeciesFile     = "species.yaml"
	RolesFile       = "roles.yaml"
	BackgroundsFile = "backgrounds.yaml"
	ItemsFile       = "items.yaml"
	CreaturesFile   = "creatures.yaml"
	ScenariosFile   = "scenarios.yaml"
)

// Species sets base traits, health and movement
type Species struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Traits   map[rules.Trait]int `yaml:"traits"`
	Health   int                 `yaml:"health"`
	Movement int                 `yaml:"movement"`
	Features []features.Feature  `yaml:"features"`
	Actions  []string            `yaml:"actions"`
}

// Role is the combat calling: skills, gear and most actions
type Role struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Skills   map[rules.Skill]int `yaml:"skills"`
	Features []features.Feature  `yaml:"features"`
	Actions  []string            `yaml:"actions"`
	Items    []string            `yaml:"items"`
}

// Background is what a hero did before joining the squad
type Background struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Skills   map[rules.Skill]int `yaml:"skills"`
	Features []features.Feature  `yaml:"features"`
	Actions  []string            `yaml:"actions"`
	Items    []string            `yaml:"items"`
}

// Creature is an opposing or summoned unit template
type Creature struct {
	ID        string              `yaml:"id"`
	Name      string              `yaml:"name"`
	Traits    map[rules.Trait]int `yaml:"traits"`
	Skills    map[rules.Skill]int `yaml:"skills"`
	Health    int                 `yaml:"health"`
	MaxWounds int                 `yaml:"max_wounds"`
	Movement  int                 `yaml:"movement"`
	Features  []features.Feature  `yaml:"features"`
	Actions   []string            `yaml:"actions"`
	Items     []string            `yaml:"items"`
}

// HeroSlot places a catalog-built hero in a scenario
type HeroSlot struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Species    string            `yaml:"species"`
	Role       string            `yaml:"role"`
	Background string            `yaml:"background"`
	Choices    map[string]string `yaml:"choices"`
	Position   grid.Position     `yaml:"position"`
}

// EnemySlot places a creature in a scenario
type EnemySlot struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Creature string        `yaml:"creature"`
	Position grid.Position `yaml:"position"`
}

// Scenario is a ready-made encounter layout
type Scenario struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Map     grid.Map    `yaml:"map"`
	Heroes  []HeroSlot  `yaml:"heroes"`
	Enemies []EnemySlot `yaml:"enemies"`
	Loot    []string    `yaml:"loot"`
	XP      int         `yaml:"xp"`
}

// Catalog is immutable once loaded
type Catalog struct {
	actions     map[string]*actions.Action
	species     map[string]*Species
	roles       map[string]*Role
	backgrounds map[string]*Background
	items       map[string]*combatant.Item
	creatures   map[string]*Creature
	scenarios   map[string]*Scenario
}

// Default returns the embedded catalog, loading it on first use
var Default = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open embedded content")
	}
	return Load(sub)
})

// LoadDir loads a catalog from a directory on disk
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Load decodes and validates every content file. The first problem found is
// returned as a content error.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}

	var actionList []*actions.Action
	var speciesList []*Species
	var roleList []*Role
	var backgroundList []*Background
	var itemList []*combatant.Item
	var creatureList []*Creature
	var scenarioList []*Scenario

	files := []struct {
		name     string
		out      any
		optional bool
	}{
		{name: ActionsFile, out: &actionList},
		{name: SpeciesFile, out: &speciesList},
		{name: RolesFile, out: &roleList},
		{name: BackgroundsFile, out: &backgroundList},
		{name: ItemsFile, out: &itemList},
		{name: CreaturesFile, out: &creatureList},
		{name: ScenariosFile, out: &scenarioList, optional: true},
	}
	for _, f := range files {
		if err := decodeFile(fsys, f.name, f.out, f.optional); err != nil {
			return nil, err
		}
	}

	var err error
	if c.actions, err = index(actionList, func(a *actions.Action) string { return a.ID }, ActionsFile); err != nil {
		return nil, err
	}
	if c.species, err = index(speciesList, func(s *Species) string { return s.ID }, SpeciesFile); err != nil {
		return nil, err
	}
	if c.roles, err = index(roleList, func(r *Role) string { return r.ID }, RolesFile); err != nil {
		return nil, err
	}
	if c.backgrounds, err = index(backgroundList, func(b *Background) string { return b.ID }, BackgroundsFile); err != nil {
		return nil, err
	}
	if c.items, err = index(itemList, func(i *combatant.Item) string { return i.ID }, ItemsFile); err != nil {
		return nil, err
	}
	if c.creatures, err = index(creatureList, func(cr *Creature) string { return cr.ID }, CreaturesFile); err != nil {
		return nil, err
	}
	if c.scenarios, err = index(scenarioList, func(s *Scenario) string { return s.ID }, ScenariosFile); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Loaded %d actions, %d species, %d roles, %d backgrounds, %d items, %d creatures, %d scenarios",
		len(c.actions), len(c.species), len(c.roles), len(c.backgrounds), len(c.items), len(c.creatures), len(c.scenarios))

	return c, nil
}

func decodeFile(fsys fs.FS, name string, out any, optional bool) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.WrapWithCode(err, apperrors.CodeContent, "failed to read "+name)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeContent, "failed to decode "+name)
	}
	return nil
}

func index[T any](list []*T, key func(*T) string, file string) (map[string]*T, error) {
	out := make(map[string]*T, len(list))
	for i, item := range list {
		id := key(item)
		if id == "" {
			return nil, apperrors.Contentf("%s entry %d has no id", file, i)
		}
		if _, dup := out[id]; dup {
			return nil, apperrors.Contentf("%s defines %q twice", file, id)
		}
		out[id] = item
	}
	return out, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Action looks up an action
func (c *Catalog) Action(id string) (*actions.Action, error) {
	a, ok := c.actions[id]
	if !ok {
		return nil, apperrors.NotFoundf("action %s not found", id)
	}
	return a, nil
}

// ActionIDs lists every action id, sorted
func (c *Catalog) ActionIDs() []string {
	return sortedKeys(c.actions)
}

// Species looks up a species
func (c *Catalog) Species(id string) (*Species, error) {
	s, ok := c.species[id]
	if !ok {
		return nil, apperrors.NotFoundf("species %s not found", id)
	}
	return s, nil
}

// Role looks up a role
func (c *Catalog) Role(id string) (*Role, error) {
	r, ok := c.roles[id]
	if !ok {
		return nil, apperrors.NotFoundf("role %s not found", id)
	}
	return r, nil
}

// Background looks up a background
func (c *Catalog) Background(id string) (*Background, error) {
	b, ok := c.backgrounds[id]
	if !ok {
		return nil, apperrors.NotFoundf("background %s not found", id)
	}
	return b, nil
}

// Item returns a fresh copy of an item template
func (c *Catalog) Item(id string) (*combatant.Item, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, apperrors.NotFoundf("item %s not found", id)
	}
	return item.Clone(), nil
}

// Creature looks up a creature template
func (c *Catalog) Creature(id string) (*Creature, error) {
	cr, ok := c.creatures[id]
	if !ok {
		return nil, apperrors.NotFoundf("creature %s not found", id)
	}
	return cr, nil
}

// Scenario looks up a scenario
func (c *Catalog) Scenario(id string) (*Scenario, error) {
	s, ok := c.scenarios[id]
	if !ok {
		return nil, apperrors.NotFoundf("scenario %s not found", id)
	}
	return s, nil
}

// ScenarioIDs lists every scenario id, sorted
func (c *Catalog) ScenarioIDs() []string {
	return sortedKeys(c.scenarios)
}

package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"

	"gopkg.in/yaml.v3"
)

// DefaultCategories is the built-in genre list.
var DefaultCategories = []model.Category{
	{ID: "trending_ar", Name: "Hits Argentina", Query: "karaoke exitos actuales argentina 2024 2025"},
	{ID: "rock", Name: "Rock Nacional", Query: "karaoke rock nacional argentino clasicos"},
	{ID: "cumbia_nueva", Name: "Cumbia RKT", Query: "karaoke cumbia rkt 2024"},
	{ID: "cuarteto", Name: "Cuarteto Cordobés", Query: "karaoke cuarteto cordobes la konga ulises bueno"},
	{ID: "trap_ar", Name: "Trap / Urbano AR", Query: "karaoke trap argentino duki tiago pzk emilia bizarrap"},
	{ID: "cumbia_90", Name: "Cumbia 90s/00s", Query: "karaoke cumbia vieja clasicos 90 2000"},
	{ID: "folklore", Name: "Folklore", Query: "karaoke folklore argentino grandes exitos"},
	{ID: "80_90_latino", Name: "Clásicos 80/90", Query: "karaoke clasicos 80 90 español latino"},
	{ID: "baladas", Name: "Baladas", Query: "karaoke baladas romanticas español luis miguel"},
}

type file struct {
	Categories []model.Category `yaml:"categories"`
}

// Catalog is an ordered, read-only category list
type Catalog struct {
	categories []model.Category
	byID       map[string]model.Category
}

// New builds a catalog; ids must be unique and every field set.
func New(categories []model.Category) (repository.ICatalog, error) {
	if len(categories) == 0 {
		return nil, errors.New("catalog has no categories")
	}
	c := &Catalog{
		categories: make([]model.Category, 0, len(categories)),
		byID:       make(map[string]model.Category, len(categories)),
	}
	for i, cat := range categories {
		cat.ID = strings.TrimSpace(cat.ID)
		cat.Name = strings.TrimSpace(cat.Name)
		cat.Query = strings.TrimSpace(cat.Query)
		if cat.ID == "" || cat.Name == "" || cat.Query == "" {
			return nil, fmt.Errorf("category %d: id, name and query are required", i)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", cat.ID)
		}
		c.byID[cat.ID] = cat
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// Load reads the YAML file at path. An empty path, or a missing file, gives
// the built-in list.
func Load(path string) (repository.ICatalog, error) {
	if path == "" {
		return New(DefaultCategories)
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.GetLogger().WithField("path", path).Warn("Catalog file not found, using built-in categories")
		return New(DefaultCategories)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return New(f.Categories)
}

func (c *Catalog) List() []model.Category {
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Get(id string) (model.Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

func (c *Catalog) Default() model.Category {
	return c.categories[0]
}

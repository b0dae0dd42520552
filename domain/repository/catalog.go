package repository

import "karaoke-browser/domain/model"

// ICatalog defines the browsable karaoke categories
type ICatalog interface {
	List() []model.Category
	Get(id string) (model.Category, bool)
	// Default is the category a new session starts on.
	Default() model.Category
}

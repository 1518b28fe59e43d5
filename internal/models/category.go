package models

// Category groups ads. Rows are seeded at startup and read-only over the API.
type Category struct {
	BaseModel
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Description *string `json:"description"`
}

// DefaultCategories is the set seeded into an empty categories table.
var DefaultCategories = []string{
	"Electronics",
	"Vehicles",
	"Real Estate",
	"Jobs",
	"Services",
	"Fashion",
	"Sports",
	"Books",
}

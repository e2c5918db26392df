package progression

import (
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
)

// Category is one of the fixed progression tracks. The set is closed on
// purpose: every category is bound to its tier table at compile time,
// an unrecognized name can only enter through ParseCategory.
type Category string

const (
	CategoryPunctual        Category = "punctual"
	CategoryAcademicWarrior Category = "academic_warrior"
	CategoryAthleticFreak   Category = "athletic_freak"
)

func Categories() []Category {
	return []Category{CategoryPunctual, CategoryAcademicWarrior, CategoryAthleticFreak}
}

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPunctual, CategoryAcademicWarrior, CategoryAthleticFreak:
		return Category(s), nil
	}
	return "", errorvalues.ErrUnknownCategory
}

// Tier is a named achievement threshold within a category. Thresholds
// in a table are strictly increasing and start above zero.
type Tier struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Icon      string `json:"icon"`
}

var tierTables = map[Category][]Tier{
	CategoryPunctual: {
		{Name: "Punctual Novice", Threshold: 1, Icon: "🥉"},
		{Name: "Punctual Apprentice", Threshold: 5, Icon: "🥈"},
		{Name: "Punctual Master", Threshold: 10, Icon: "🥇"},
		{Name: "Punctual Grandmaster", Threshold: 25, Icon: "🌟"},
		{Name: "Punctual Legend", Threshold: 50, Icon: "🏆"},
	},
	CategoryAcademicWarrior: {
		{Name: "Academic Explorer", Threshold: 1, Icon: "📚"},
		{Name: "Academic Scholar", Threshold: 5, Icon: "🎓"},
		{Name: "Academic Legend", Threshold: 10, Icon: "🌟"},
		{Name: "Academic Sage", Threshold: 25, Icon: "🦉"},
		{Name: "Academic Oracle", Threshold: 50, Icon: "📜"},
	},
	CategoryAthleticFreak: {
		{Name: "Athletic Starter", Threshold: 1, Icon: "👟"},
		{Name: "Athletic Enthusiast", Threshold: 5, Icon: "💪"},
		{Name: "Athletic Champion", Threshold: 10, Icon: "🏆"},
		{Name: "Athletic Titan", Threshold: 25, Icon: "🏋️"},
		{Name: "Athletic God", Threshold: 50, Icon: "⚡"},
	},
}

// Tiers returns the static tier table of a category, nil for an
// unknown one. The returned slice must not be mutated.
func Tiers(c Category) []Tier {
	return tierTables[c]
}

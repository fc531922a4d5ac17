package render

import (
	"strings"

	"bartender/internal/textutil"
)

// DefaultTitle is the card title used when no lesson name is known.
const DefaultTitle = "Forest Whisperer"

// Recipe is the content of a recipe card.
type Recipe struct {
	Title       string   `json:"title" yaml:"title"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Method      []string `json:"method" yaml:"method"`
}

// DefaultRecipe returns the sample recipe shown when a lesson has no spec.
func DefaultRecipe() Recipe {
	return Recipe{
		Title:       DefaultTitle,
		Ingredients: []string{"1.5 oz vodka", "0.5 oz maraschino", "1 oz cranberry", "0.5 oz lemon"},
		Method:      []string{"Shake hard with ice", "Fine strain to coupe", "Garnish: lemon twist"},
	}
}

// ParseRecipeSpec turns a lesson spec such as
// "vodka 1.5 oz, lemon 0.5 oz; shake hard; fine strain" into card content.
// The first ";" segment lists comma-separated ingredients; each remaining
// segment is one method line. Method lines are capitalized. A blank spec
// yields the default recipe's ingredients and method.
func ParseRecipeSpec(spec string) (ingredients, method []string) {
	segments := strings.Split(spec, ";")
	ingredients = trimLines(strings.Split(segments[0], ","))
	for _, segment := range trimLines(segments[1:]) {
		method = append(method, capitalize(segment))
	}
	if len(ingredients) == 0 && len(method) == 0 {
		def := DefaultRecipe()
		return def.Ingredients, def.Method
	}
	return ingredients, method
}

// RecipeFor builds card content for a lesson title and spec, applying the
// default title and recipe where they are blank.
func RecipeFor(title, spec string) Recipe {
	recipe := Recipe{Title: textutil.TitleCase(title)}
	recipe.Ingredients, recipe.Method = ParseRecipeSpec(spec)
	return recipe.normalized()
}

func (r Recipe) normalized() Recipe {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.Ingredients = trimLines(r.Ingredients)
	r.Method = trimLines(r.Method)
	return r
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

package tandoor

import (
	"strings"

	"recipesnap/internal/recipe"
)

// Normalize converts an extracted record into a Tandoor creation payload.
// It performs no I/O and never fails: missing or malformed fields fall back
// to defaults. The result depends only on r.
func Normalize(r *recipe.Record) *Recipe {
	if r == nil {
		r = &recipe.Record{}
	}

	out := &Recipe{
		Name:        recipe.Truncate(strings.TrimSpace(r.Name), nameMax),
		WorkingTime: recipe.DurationMinutes(r.PrepTime),
		WaitingTime: recipe.DurationMinutes(r.CookTime),
		Keywords:    keywords(r),
		Steps:       steps(r.Instructions),
	}

	if desc := strings.TrimSpace(r.Description); desc != "" {
		d := recipe.Truncate(desc, descriptionMax)
		out.Description = &d
	}

	servings := recipe.ParseServings(r.Yield)
	out.Servings = servings.Count
	out.ServingsText = servings.Text

	out.fillDefaults()

	out.Steps[0].Ingredients = ingredients(r.Ingredients)
	return out
}

func steps(instructions []recipe.Instruction) []Step {
	var out []Step
	for _, in := range instructions {
		text := strings.TrimSpace(recipe.InstructionText(in))
		if text == "" {
			continue
		}
		out = append(out, newStep(text, len(out)))
	}
	return out
}

// ingredients keeps each line's position in the source list as its order,
// so blank lines that are skipped still count.
func ingredients(lines []string) []Ingredient {
	out := make([]Ingredient, 0, len(lines))
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if recipe.IsHeader(text) {
			out = append(out, headerIngredient(text, i))
			continue
		}
		out = append(out, foodIngredient(recipe.Truncate(text, foodNameMax), i))
	}
	return out
}

// keywords dedupes exactly; "Dessert" and "dessert" are different keywords.
func keywords(r *recipe.Record) []Keyword {
	tokens := append(strings.Split(r.Keywords, ","), r.Category, r.Cuisine)

	seen := make(map[string]bool)
	out := []Keyword{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, Keyword{Name: recipe.Truncate(tok, keywordMax)})
	}
	return out
}

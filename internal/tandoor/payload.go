// Package tandoor maps extracted recipes onto the Tandoor recipe-manager API
// and sends them there.
package tandoor

const (
	nameMax        = 128
	descriptionMax = 512
	foodNameMax    = 128
	keywordMax     = 128

	defaultName       = "Untitled Recipe"
	placeholderStep   = "No instructions provided."
	defaultUnitName   = "g"
	placeholderAmount = "0"
	stepTypeText      = "TEXT"
)

// Recipe is the body of POST /api/recipe/.
type Recipe struct {
	Name                   string     `json:"name"`
	Description            *string    `json:"description"`
	Keywords               []Keyword  `json:"keywords"`
	Steps                  []Step     `json:"steps"`
	WorkingTime            *int       `json:"working_time,omitempty"`
	WaitingTime            *int       `json:"waiting_time,omitempty"`
	Servings               *int       `json:"servings"`
	ServingsText           string     `json:"servings_text"`
	Nutrition              *Nutrition `json:"nutrition"`
	Properties             []any      `json:"properties"`
	Shared                 []any      `json:"shared"`
	Internal               bool       `json:"internal"`
	Private                bool       `json:"private"`
	ShowIngredientOverview bool       `json:"show_ingredient_overview"`
}

// Keyword is a tag attached to a recipe.
type Keyword struct {
	Name string `json:"name"`
}

// Step is one instruction block. All ingredients live on the first step.
type Step struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Instruction  string       `json:"instruction"`
	Ingredients  []Ingredient `json:"ingredients"`
	Time         int          `json:"time"`
	Order        int          `json:"order"`
	ShowAsHeader bool         `json:"show_as_header"`
}

// Ingredient is either a section header (Food is nil) or a food line.
type Ingredient struct {
	Food     *Food  `json:"food"`
	Unit     Unit   `json:"unit"`
	Amount   string `json:"amount"`
	Note     string `json:"note"`
	Order    int    `json:"order"`
	IsHeader bool   `json:"is_header"`
	NoAmount bool   `json:"no_amount"`
}

// Food names an ingredient.
type Food struct {
	Name                string  `json:"name"`
	IgnoreShopping      bool    `json:"ignore_shopping"`
	SupermarketCategory *string `json:"supermarket_category"`
}

// Unit is the measuring unit of an ingredient amount.
type Unit struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Nutrition is required by the schema; values are never extracted.
type Nutrition struct {
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
	Proteins      float64 `json:"proteins"`
	Calories      float64 `json:"calories"`
	Source        string  `json:"source"`
}

// fillDefaults sets every schema-required field the source cannot supply.
// It is the single place that decides required-vs-optional for the payload.
func (r *Recipe) fillDefaults() {
	if r.Name == "" {
		r.Name = defaultName
	}
	if r.Keywords == nil {
		r.Keywords = []Keyword{}
	}
	if len(r.Steps) == 0 {
		r.Steps = []Step{newStep(placeholderStep, 0)}
	}
	for i := range r.Steps {
		if r.Steps[i].Ingredients == nil {
			r.Steps[i].Ingredients = []Ingredient{}
		}
	}
	r.Nutrition = &Nutrition{}
	r.Properties = []any{}
	r.Shared = []any{}
	r.Internal = false
	r.Private = false
	r.ShowIngredientOverview = false
}

func newStep(instruction string, order int) Step {
	return Step{
		Type:        stepTypeText,
		Instruction: instruction,
		Order:       order,
	}
}

func headerIngredient(text string, order int) Ingredient {
	return Ingredient{
		Unit:     Unit{Name: defaultUnitName},
		Amount:   placeholderAmount,
		Note:     text,
		Order:    order,
		IsHeader: true,
	}
}

// foodIngredient has no parsed amount: quantities stay inside the food name.
func foodIngredient(text string, order int) Ingredient {
	return Ingredient{
		Food:     &Food{Name: text},
		Unit:     Unit{Name: defaultUnitName},
		Amount:   placeholderAmount,
		Order:    order,
		NoAmount: true,
	}
}

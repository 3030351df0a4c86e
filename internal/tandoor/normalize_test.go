package tandoor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipesnap/internal/recipe"
)

func sampleRecord() *recipe.Record {
	return &recipe.Record{
		Name:        "Chicken Curry",
		Description: "Weeknight curry.",
		Ingredients: []string{
			"For the marinade:",
			"500g chicken",
			"",
			"Sauce:",
			"1 can coconut milk",
		},
		Instructions: []recipe.Instruction{
			recipe.PlainText("Marinate the chicken."),
			recipe.StructuredStep{Text: "   "},
			recipe.StructuredStep{Text: "Simmer in sauce."},
		},
		PrepTime: "PT20M",
		CookTime: "PT0S",
		Yield:    "Serves 4 people",
		Category: "Main",
		Cuisine:  "Indian",
		Keywords: "curry, spicy, curry",
	}
}

func TestNormalize(t *testing.T) {
	p := Normalize(sampleRecord())

	assert.Equal(t, "Chicken Curry", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Weeknight curry.", *p.Description)

	require.NotNil(t, p.WorkingTime)
	assert.Equal(t, 20, *p.WorkingTime)
	assert.Nil(t, p.WaitingTime)

	require.NotNil(t, p.Servings)
	assert.Equal(t, 4, *p.Servings)
	assert.Equal(t, "Serves 4 people", p.ServingsText)

	assert.Equal(t, []Keyword{{"curry"}, {"spicy"}, {"Main"}, {"Indian"}}, p.Keywords)

	require.Len(t, p.Steps, 2)
	assert.Equal(t, "Marinate the chicken.", p.Steps[0].Instruction)
	assert.Equal(t, 0, p.Steps[0].Order)
	assert.Equal(t, "Simmer in sauce.", p.Steps[1].Instruction)
	assert.Equal(t, 1, p.Steps[1].Order)
	assert.Equal(t, "TEXT", p.Steps[1].Type)
	assert.Empty(t, p.Steps[1].Ingredients)

	ings := p.Steps[0].Ingredients
	require.Len(t, ings, 4)

	assert.True(t, ings[0].IsHeader)
	assert.Nil(t, ings[0].Food)
	assert.Equal(t, "For the marinade:", ings[0].Note)
	assert.False(t, ings[0].NoAmount)
	assert.Equal(t, 0, ings[0].Order)

	assert.False(t, ings[1].IsHeader)
	require.NotNil(t, ings[1].Food)
	assert.Equal(t, "500g chicken", ings[1].Food.Name)
	assert.True(t, ings[1].NoAmount)
	assert.Equal(t, "0", ings[1].Amount)
	assert.Equal(t, "g", ings[1].Unit.Name)
	assert.Equal(t, 1, ings[1].Order)

	assert.True(t, ings[2].IsHeader)
	assert.Equal(t, 3, ings[2].Order)
	assert.Equal(t, 4, ings[3].Order)

	require.NotNil(t, p.Nutrition)
	assert.Equal(t, Nutrition{}, *p.Nutrition)
	assert.NotNil(t, p.Properties)
	assert.NotNil(t, p.Shared)
}

func TestNormalize_Idempotent(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, Normalize(r), Normalize(r))
}

func TestNormalize_PlaceholderStep(t *testing.T) {
	p := Normalize(&recipe.Record{Name: "Toast", Ingredients: []string{"bread"}})

	require.Len(t, p.Steps, 1)
	assert.Equal(t, "No instructions provided.", p.Steps[0].Instruction)
	assert.Equal(t, 0, p.Steps[0].Order)
	require.Len(t, p.Steps[0].Ingredients, 1)
	assert.Equal(t, "bread", p.Steps[0].Ingredients[0].Food.Name)
}

func TestNormalize_KeywordDedupIsCaseSensitive(t *testing.T) {
	p := Normalize(&recipe.Record{Keywords: "Dessert, dessert", Category: "Dessert"})
	assert.Equal(t, []Keyword{{"Dessert"}, {"dessert"}}, p.Keywords)
}

func TestNormalize_EmptyRecord(t *testing.T) {
	for _, r := range []*recipe.Record{nil, {}} {
		p := Normalize(r)
		assert.Equal(t, "Untitled Recipe", p.Name)
		assert.Nil(t, p.Description)
		assert.Nil(t, p.Servings)
		assert.Equal(t, "", p.ServingsText)
		assert.Empty(t, p.Keywords)
		require.Len(t, p.Steps, 1)
		assert.NotNil(t, p.Steps[0].Ingredients)
	}
}

func TestNormalize_ClampsLengths(t *testing.T) {
	long := strings.Repeat("a", 600)
	p := Normalize(&recipe.Record{
		Name:        long,
		Description: long,
		Ingredients: []string{long},
		Keywords:    long,
		Yield:       long,
	})

	assert.Len(t, p.Name, 128)
	assert.Len(t, *p.Description, 512)
	assert.Len(t, p.Steps[0].Ingredients[0].Food.Name, 128)
	assert.Len(t, p.Keywords[0].Name, 128)
	assert.Len(t, p.ServingsText, 32)
}

func TestNormalize_JSONShape(t *testing.T) {
	p := Normalize(&recipe.Record{Name: "Water", Ingredients: []string{"For the glass:", "water"}})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.NotContains(t, m, "working_time")
	assert.NotContains(t, m, "waiting_time")
	assert.Contains(t, m, "servings")
	assert.Nil(t, m["servings"])
	assert.Nil(t, m["description"])
	assert.Equal(t, []any{}, m["keywords"])
	assert.Equal(t, map[string]any{
		"carbohydrates": 0.0, "fats": 0.0, "proteins": 0.0, "calories": 0.0, "source": "",
	}, m["nutrition"])

	step := m["steps"].([]any)[0].(map[string]any)
	assert.Equal(t, "", step["name"])
	assert.Equal(t, false, step["show_as_header"])
	assert.Equal(t, 0.0, step["time"])

	ings := step["ingredients"].([]any)
	header := ings[0].(map[string]any)
	assert.Nil(t, header["food"])
	assert.Equal(t, map[string]any{"name": "g", "description": nil}, header["unit"])

	food := ings[1].(map[string]any)["food"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "water", "ignore_shopping": false, "supermarket_category": nil}, food)
}

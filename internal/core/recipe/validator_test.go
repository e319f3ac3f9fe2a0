package recipe

import (
	"encoding/json"
	"testing"

	"recipe-studio/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, common.ParseJSON(raw, &m))
	return m
}

const fullRecipeJSON = `{
	"name": "Garlic Butter Pasta",
	"tags": ["Italian", "Dinner"],
	"cookingTime": "25 minutes",
	"difficulty": "Easy",
	"servings": 2,
	"ingredients": ["200g spaghetti", "3 cloves garlic", "2 tbsp butter"],
	"instructions": ["Boil pasta.", "Melt butter with garlic.", "Toss together."],
	"nutritionalInfo": {"calories": "520 kcal", "protein": "14g", "carbs": "70g", "fat": "20g"},
	"tips": ["Save some pasta water."],
	"imageSrc": "https://example.com/pasta.jpg"
}`

func TestValidateFullRecipe(t *testing.T) {
	r, err := Validate(decode(t, fullRecipeJSON))
	require.NoError(t, err)

	assert.Equal(t, "Garlic Butter Pasta", r.Name)
	assert.Equal(t, []string{"Italian", "Dinner"}, r.Tags)
	assert.Equal(t, "25 minutes", r.CookingTime)
	assert.Equal(t, "Easy", r.Difficulty)
	assert.Equal(t, 2, r.Servings)
	assert.Len(t, r.Ingredients, 3)
	assert.Len(t, r.Instructions, 3)
	assert.Equal(t, NutritionalInfo{Calories: "520 kcal", Protein: "14g", Carbs: "70g", Fat: "20g"}, r.NutritionalInfo)
	assert.Equal(t, []string{"Save some pasta water."}, r.Tips)
	assert.Equal(t, "https://example.com/pasta.jpg", r.ImageSrc)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		field string
	}{
		{"nil input", nil, "recipe"},
		{"not an object", []interface{}{"a"}, "recipe"},
		{"string input", "recipe", "recipe"},
		{"missing name", map[string]interface{}{"ingredients": []interface{}{"a"}, "instructions": []interface{}{"b"}}, "name"},
		{"empty name", map[string]interface{}{"name": "", "ingredients": []interface{}{"a"}, "instructions": []interface{}{"b"}}, "name"},
		{"false name", map[string]interface{}{"name": false, "ingredients": []interface{}{"a"}, "instructions": []interface{}{"b"}}, "name"},
		{"zero name", map[string]interface{}{"name": json.Number("0"), "ingredients": []interface{}{"a"}, "instructions": []interface{}{"b"}}, "name"},
		{"missing ingredients", map[string]interface{}{"name": "x", "instructions": []interface{}{"b"}}, "ingredients"},
		{"null ingredients", map[string]interface{}{"name": "x", "ingredients": nil, "instructions": []interface{}{"b"}}, "ingredients"},
		{"missing instructions", map[string]interface{}{"name": "x", "ingredients": []interface{}{"a"}}, "instructions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Validate(tt.input)
			assert.Nil(t, r)
			require.Error(t, err)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateCoercion(t *testing.T) {
	t.Run("non-sequence tags become General", func(t *testing.T) {
		for _, tags := range []interface{}{"spicy", json.Number("3"), map[string]interface{}{"a": "b"}, true} {
			r, err := Validate(map[string]interface{}{
				"name": "Soup", "ingredients": []interface{}{"water"}, "instructions": []interface{}{"boil"},
				"tags": tags,
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"General"}, r.Tags, "tags=%v", tags)
		}
	})

	t.Run("absent fields get defaults", func(t *testing.T) {
		r, err := Validate(map[string]interface{}{
			"name": "Soup", "ingredients": []interface{}{"water"}, "instructions": []interface{}{"boil"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"General"}, r.Tags)
		assert.Equal(t, "30 minutes", r.CookingTime)
		assert.Equal(t, "Medium", r.Difficulty)
		assert.Equal(t, 4, r.Servings)
		assert.Equal(t, NutritionalInfo{NotSpecified, NotSpecified, NotSpecified, NotSpecified}, r.NutritionalInfo)
		assert.NotNil(t, r.Tips)
		assert.Empty(t, r.Tips)
		assert.Empty(t, r.ImageSrc)
	})

	t.Run("list elements are stringified", func(t *testing.T) {
		r, err := Validate(decode(t, `{
			"name": 42,
			"ingredients": [2, true, null, {"item": "egg"}, 1.50, "salt"],
			"instructions": [["mix", "bake"]],
			"tags": [1, "Vegan"]
		}`))
		require.NoError(t, err)
		assert.Equal(t, "42", r.Name)
		assert.Equal(t, []string{"2", "true", `{"item":"egg"}`, "1.5", "salt"}, r.Ingredients)
		assert.Equal(t, []string{`["mix","bake"]`}, r.Instructions)
		assert.Equal(t, []string{"1", "Vegan"}, r.Tags)
	})

	t.Run("wrong-typed required lists get a placeholder", func(t *testing.T) {
		r, err := Validate(map[string]interface{}{
			"name": "Soup", "ingredients": "water", "instructions": []interface{}{},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{MissingIngredients}, r.Ingredients)
		assert.Equal(t, []string{MissingInstructions}, r.Instructions)
	})

	t.Run("servings accepts any number and truncates", func(t *testing.T) {
		cases := map[string]struct {
			in   interface{}
			want int
		}{
			"json number":  {json.Number("6"), 6},
			"fraction":     {json.Number("2.7"), 2},
			"float64":      {float64(3), 3},
			"int":          {5, 5},
			"string":       {"4 people", 4},
			"zero":         {json.Number("0"), 4},
			"negative":     {-2, 4},
			"not a number": {[]interface{}{1}, 4},
		}
		for name, c := range cases {
			t.Run(name, func(t *testing.T) {
				r, err := Validate(map[string]interface{}{
					"name": "Soup", "ingredients": []interface{}{"water"}, "instructions": []interface{}{"boil"},
					"servings": c.in,
				})
				require.NoError(t, err)
				assert.Equal(t, c.want, r.Servings)
			})
		}
	})

	t.Run("wrong-typed text fields get defaults", func(t *testing.T) {
		r, err := Validate(decode(t, `{
			"name": "Soup", "ingredients": ["water"], "instructions": ["boil"],
			"cookingTime": 30, "difficulty": ["hard"],
			"nutritionalInfo": {"calories": 300, "protein": "10g", "carbs": null},
			"tips": "stir often", "imageSrc": 7
		}`))
		require.NoError(t, err)
		assert.Equal(t, "30 minutes", r.CookingTime)
		assert.Equal(t, "Medium", r.Difficulty)
		assert.Equal(t, NutritionalInfo{NotSpecified, "10g", NotSpecified, NotSpecified}, r.NutritionalInfo)
		assert.Empty(t, r.Tips)
		assert.Empty(t, r.ImageSrc)
	})

	t.Run("nutritionalInfo not an object", func(t *testing.T) {
		r, err := Validate(map[string]interface{}{
			"name": "Soup", "ingredients": []interface{}{"water"}, "instructions": []interface{}{"boil"},
			"nutritionalInfo": "lots",
		})
		require.NoError(t, err)
		assert.Equal(t, NotSpecified, r.NutritionalInfo.Calories)
	})
}

func TestValidateIsIdempotent(t *testing.T) {
	inputs := []map[string]interface{}{
		decode(t, fullRecipeJSON),
		decode(t, `{"name": "x", "ingredients": "bad", "instructions": [1, 2], "tags": "bad", "servings": 2.9}`),
		decode(t, `{"name": {"a": 1}, "ingredients": [" egg "], "instructions": [""], "tips": []}`),
		MockRecipe("spicy vegan dessert").ToMap(),
	}

	for i, in := range inputs {
		first, err := Validate(in)
		require.NoError(t, err, "input %d", i)

		second, err := Validate(first.ToMap())
		require.NoError(t, err, "input %d", i)
		assert.Equal(t, first, second, "input %d", i)

		// 經過 JSON 往返也相同
		data, err := json.Marshal(first)
		require.NoError(t, err)
		third, err := Validate(decode(t, string(data)))
		require.NoError(t, err)
		assert.Equal(t, first, third, "input %d", i)
	}
}

func TestValidateHasNoSideEffects(t *testing.T) {
	in := decode(t, fullRecipeJSON)
	before, err := json.Marshal(in)
	require.NoError(t, err)

	_, err = Validate(in)
	require.NoError(t, err)

	after, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

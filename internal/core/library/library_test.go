package library

import (
	"context"
	"testing"
	"time"

	"recipe-studio/internal/core/recipe"
	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"
	"recipe-studio/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientID = "client-123"

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	common.InitTestLogger()

	store := storage.NewMemoryStore(config.StorageConfig{
		Driver:          "memory",
		MaxSize:         100,
		TTL:             time.Hour,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

func testRecipe(name string, ingredients ...string) recipe.Recipe {
	r := recipe.MockRecipe(name)
	r.Name = name
	if len(ingredients) > 0 {
		r.Ingredients = ingredients
	}
	return r
}

func TestSavedRecipes(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	list, err := s.ListSaved(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, list)

	added, err := s.SaveRecipe(ctx, clientID, testRecipe("Tacos"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.SaveRecipe(ctx, clientID, testRecipe("Tacos"))
	require.NoError(t, err)
	assert.False(t, added, "duplicate names are ignored")

	_, err = s.SaveRecipe(ctx, clientID, testRecipe("Soup"))
	require.NoError(t, err)

	list, err = s.ListSaved(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Tacos", list[0].Name)
	assert.Equal(t, "Soup", list[1].Name)

	// 以客戶端區分鍵
	raw, err := store.Get(ctx, "client:client-123:savedRecipes")
	require.NoError(t, err)
	assert.Contains(t, raw, `"name":"Tacos"`)

	other, err := s.ListSaved(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.DeleteSaved(ctx, clientID, "Tacos"))
	assert.ErrorIs(t, s.DeleteSaved(ctx, clientID, "Tacos"), ErrNotFound)

	list, err = s.ListSaved(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Soup", list[0].Name)
}

func TestSavedRecipesValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.ListSaved(ctx, " ")
	assert.True(t, common.IsValidationError(err))

	_, err = s.SaveRecipe(ctx, clientID, recipe.Recipe{})
	assert.True(t, common.IsValidationError(err))
}

func TestCorruptedValueReadsAsEmpty(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, Key(clientID, keySavedRecipes), "{not json"))
	list, err := s.ListSaved(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWeekDates(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-05-13", "2024-05-13"}, // Monday
		{"2024-05-16", "2024-05-13"}, // Thursday
		{"2024-05-19", "2024-05-13"}, // Sunday
		{"2024-03-01", "2024-02-26"}, // crosses a month
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			d, err := time.Parse(DateLayout, tt.day)
			require.NoError(t, err)

			week := WeekDates(d)
			require.Len(t, week, 7)
			assert.Equal(t, tt.want, week[0])

			monday, _ := time.Parse(DateLayout, week[0])
			sunday, _ := time.Parse(DateLayout, week[6])
			assert.Equal(t, time.Monday, monday.Weekday())
			assert.Equal(t, time.Sunday, sunday.Weekday())
		})
	}
}

func TestMealPlan(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	added, err := s.AddToMealPlan(ctx, clientID, "2024-05-13", "Dinner", testRecipe("Tacos", "8 tortillas", "500g chicken"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddToMealPlan(ctx, clientID, "2024-05-13", "Dinner", testRecipe("Tacos"))
	require.NoError(t, err)
	assert.False(t, added, "same recipe in the same slot is skipped")

	added, err = s.AddToMealPlan(ctx, clientID, "2024-05-13", "Lunch", testRecipe("Tacos"))
	require.NoError(t, err)
	assert.True(t, added, "same recipe in another slot is fine")

	_, err = s.AddToMealPlan(ctx, clientID, "2024-05-14", "Breakfast", testRecipe("Pancakes", "2 cups flour", "1 cup milk"))
	require.NoError(t, err)

	plan, err := s.GetMealPlan(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, plan, 2)
	assert.Len(t, plan["2024-05-13"]["Dinner"], 1)

	t.Run("remove cleans up empty slots and days", func(t *testing.T) {
		require.NoError(t, s.RemoveFromMealPlan(ctx, clientID, "2024-05-14", "Breakfast", "Pancakes"))
		require.NoError(t, s.RemoveFromMealPlan(ctx, clientID, "2024-05-13", "Lunch", "Tacos"))

		plan, err := s.GetMealPlan(ctx, clientID)
		require.NoError(t, err)
		assert.NotContains(t, plan, "2024-05-14")
		assert.NotContains(t, plan["2024-05-13"], "Lunch")
		assert.Contains(t, plan["2024-05-13"], "Dinner")

		assert.ErrorIs(t, s.RemoveFromMealPlan(ctx, clientID, "2024-05-14", "Breakfast", "Pancakes"), ErrNotFound)
		assert.ErrorIs(t, s.RemoveFromMealPlan(ctx, clientID, "2024-05-13", "Dinner", "Soup"), ErrNotFound)
	})

	t.Run("invalid slot", func(t *testing.T) {
		_, err := s.AddToMealPlan(ctx, clientID, "13/05/2024", "Dinner", testRecipe("Tacos"))
		assert.True(t, common.IsValidationError(err))

		_, err = s.AddToMealPlan(ctx, clientID, "2024-05-13", "Supper", testRecipe("Tacos"))
		assert.True(t, common.IsValidationError(err))
	})
}

func TestGenerateShoppingList(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.AddToMealPlan(ctx, clientID, "2024-05-14", "Breakfast", testRecipe("Pancakes", "2 cups flour", "1 cup milk"))
	require.NoError(t, err)
	_, err = s.AddToMealPlan(ctx, clientID, "2024-05-13", "Dinner", testRecipe("Tacos", "8 tortillas", "500g chicken"))
	require.NoError(t, err)

	items, err := s.GenerateShoppingList(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "8 tortillas", Category: CategoryOther},
		{Name: "500g chicken", Category: "Meat & Seafood"},
		{Name: "2 cups flour", Category: "Pantry"},
		{Name: "1 cup milk", Category: "Dairy"},
	}, items)

	list, err := s.GetShoppingList(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, items, list.Items)
}

func TestCategorize(t *testing.T) {
	tests := map[string]string{
		"2 cups Milk":          "Dairy",
		"salted butter":        "Dairy",
		"1 lb salmon fillet":   "Meat & Seafood",
		"3 bananas":            "Fruits",
		"2 cloves garlic":      "Vegetables",
		"Sourdough bread":      "Bakery",
		"1 cup basmati rice":   "Pantry",
		"olive oil":            "Condiments",
		"dark chocolate chips": "Snacks & Sweets",
		"sparkling water":      "Beverages",
		"paper towels":         "Other",
	}
	for item, want := range tests {
		assert.Equal(t, want, Categorize(item), item)
	}
}

func TestShoppingList(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"milk", "  apples ", "coffee"} {
		_, err := s.AddItem(ctx, clientID, name)
		require.NoError(t, err)
	}
	_, err := s.AddItem(ctx, clientID, "   ")
	assert.True(t, common.IsValidationError(err))

	list, err := s.GetShoppingList(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, ShoppingItem{Name: "apples", Category: "Fruits"}, list.Items[1])

	checked, err := s.ToggleItem(ctx, clientID, "milk")
	require.NoError(t, err)
	assert.True(t, checked)
	checked, err = s.ToggleItem(ctx, clientID, "coffee")
	require.NoError(t, err)
	assert.True(t, checked)
	checked, err = s.ToggleItem(ctx, clientID, "coffee")
	require.NoError(t, err)
	assert.False(t, checked)

	_, err = s.ToggleItem(ctx, clientID, "bread")
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := s.ClearChecked(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "apples", Category: "Fruits"},
		{Name: "coffee", Category: "Beverages"},
	}, remaining)

	list, err = s.GetShoppingList(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, list.Checked)

	t.Run("remove by index drops the checked state", func(t *testing.T) {
		_, err := s.ToggleItem(ctx, clientID, "apples")
		require.NoError(t, err)

		removed, err := s.RemoveItem(ctx, clientID, 0)
		require.NoError(t, err)
		assert.Equal(t, "apples", removed.Name)

		list, err := s.GetShoppingList(ctx, clientID)
		require.NoError(t, err)
		assert.Equal(t, []ShoppingItem{{Name: "coffee", Category: "Beverages"}}, list.Items)
		assert.NotContains(t, list.Checked, "apples")

		_, err = s.RemoveItem(ctx, clientID, 5)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.RemoveItem(ctx, clientID, -1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestShoppingListLegacyStrings(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, Key(clientID, keyShoppingList), `["2 eggs", "orange juice"]`))

	list, err := s.GetShoppingList(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "2 eggs", Category: CategoryOther},
		{Name: "orange juice", Category: "Fruits"},
	}, list.Items)
}

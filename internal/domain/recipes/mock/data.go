package mock

import "github.com/foodgram/foodgram/foodgram/database/models"

var imageRef = "recipes/images/pancakes.png"

var Author = &models.User{ID: 1, Email: "author@example.com", Username: "author", FirstName: "Ann", LastName: "Author"}

var Tags = []*models.Tag{
	{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{ID: 2, Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
}

var Ingredients = []*models.Ingredient{
	{ID: 10, Name: "flour", MeasurementUnit: "g"},
	{ID: 11, Name: "milk", MeasurementUnit: "ml"},
}

// Recipe returns a fresh copy of the fully loaded pancakes recipe.
func Recipe() *models.Recipe {
	ref := imageRef
	return &models.Recipe{
		ID:          7,
		AuthorID:    Author.ID,
		Name:        "Pancakes",
		Image:       &ref,
		Text:        "Mix and fry.",
		CookingTime: 20,
		Author:      Author,
		Tags:        []*models.Tag{Tags[0]},
		Ingredients: []*models.IngredientInRecipe{
			{ID: 1, RecipeID: 7, IngredientID: 10, Amount: 200, Ingredient: Ingredients[0]},
			{ID: 2, RecipeID: 7, IngredientID: 11, Amount: 300, Ingredient: Ingredients[1]},
		},
	}
}

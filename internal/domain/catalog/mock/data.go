package mock

import "github.com/foodgram/foodgram/foodgram/database/models"

var Tags = []*models.Tag{
	{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{ID: 2, Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{ID: 3, Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

var Ingredients = []*models.Ingredient{
	{ID: 1, Name: "butter", MeasurementUnit: "g"},
	{ID: 2, Name: "buttermilk", MeasurementUnit: "ml"},
	{ID: 3, Name: "flour", MeasurementUnit: "g"},
	{ID: 4, Name: "peanut butter", MeasurementUnit: "g"},
	{ID: 5, Name: "sugar", MeasurementUnit: "g"},
}

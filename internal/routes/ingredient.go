package routes

import (
	"github.com/labstack/echo/v4"

	"production-system/internal/controllers"
)

func runIngredientRouter(secureGroup *echo.Group, ingredientCtrl *controllers.IngredientController) {
	secureGroup.GET("/orders/:id/ingredients", ingredientCtrl.GetIngredients)
	secureGroup.POST("/orders/:id/ingredients", ingredientCtrl.CreateIngredient)
	secureGroup.PUT("/ingredients/:id", ingredientCtrl.UpdateIngredient)
	secureGroup.DELETE("/ingredients/:id", ingredientCtrl.DeleteIngredient)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"production-system/internal/controllers"
)

func runOrderRouter(secureGroup *echo.Group, orderCtrl *controllers.OrderController) {
	secureGroup.GET("/orders", orderCtrl.GetOrders)
	secureGroup.POST("/orders", orderCtrl.CreateOrder)
	secureGroup.GET("/orders/:id", orderCtrl.FindOrder)
	secureGroup.PUT("/orders/:id", orderCtrl.UpdateOrder)
	secureGroup.DELETE("/orders/:id", orderCtrl.DeleteOrder)
}

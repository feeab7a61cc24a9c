package routes

import (
	"github.com/labstack/echo/v4"

	"production-system/internal/controllers"
)

func runWorklogRouter(secureGroup *echo.Group, worklogCtrl *controllers.WorklogController) {
	secureGroup.GET("/orders/:id/worklogs", worklogCtrl.GetWorklogs)
	secureGroup.POST("/orders/:id/worklogs", worklogCtrl.CreateWorklog)
	secureGroup.POST("/orders/:id/worklogs/recalculate", worklogCtrl.Recalculate)
	secureGroup.PUT("/worklogs/:id", worklogCtrl.UpdateWorklog)
	secureGroup.DELETE("/worklogs/:id", worklogCtrl.DeleteWorklog)
}

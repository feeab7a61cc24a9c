package routes

import (
	"github.com/labstack/echo/v4"

	"production-system/internal/controllers"
)

func runDashboardRouter(secureGroup *echo.Group, dashboardCtrl *controllers.DashboardController) {
	secureGroup.GET("/dashboard", dashboardCtrl.GetDashboard)
}

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController) {
	secureGroup.GET("/reports/orders", reportCtrl.GetOrdersReport)
	secureGroup.GET("/reports/worklogs", reportCtrl.GetWorklogsReport)
}

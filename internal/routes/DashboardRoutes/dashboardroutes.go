package dashboardroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/middleware"
	dashboardService "github.com/teamworkhq/teamwork/internal/service/dashboard"
)

func DashboardRoutes(router *mux.Router) {
	dashboard := dashboardService.NewDashboardService()

	protectedRouter := router.PathPrefix("/dashboard").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/summary", dashboard.Summary).Methods(http.MethodGet)
}

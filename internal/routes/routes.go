package routes

import (
	"github.com/gorilla/mux"

	attendanceroutes "github.com/teamworkhq/teamwork/internal/routes/AttendanceRoutes"
	authRoute "github.com/teamworkhq/teamwork/internal/routes/Auth"
	dashboardroutes "github.com/teamworkhq/teamwork/internal/routes/DashboardRoutes"
	orgroutes "github.com/teamworkhq/teamwork/internal/routes/OrgRoutes"
	teamroutes "github.com/teamworkhq/teamwork/internal/routes/TeamRoutes"
	userRoutes "github.com/teamworkhq/teamwork/internal/routes/user"
)

// List of all route registration functions
var routeModules = []func(*mux.Router){
	authRoute.RegisterAuthRoutes,
	userRoutes.UserProfileRoutes,
	orgroutes.OrgRoutes,
	attendanceroutes.AttendanceRoutes,
	dashboardroutes.DashboardRoutes,
	teamroutes.TeamRoutes,
	RegisterWebSocketRoutes,
}

// Register all routes dynamically
func RegisterAllRoutes() *mux.Router {
	router := mux.NewRouter()

	for _, register := range routeModules {
		register(router)
	}

	return router
}

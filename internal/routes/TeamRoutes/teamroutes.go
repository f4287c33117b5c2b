package teamroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/middleware"
	teamService "github.com/teamworkhq/teamwork/internal/service/team"
)

func TeamRoutes(router *mux.Router) {
	teamService := teamService.NewTeamService()

	protectedRouter := router.PathPrefix("/team").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/create", teamService.CreateTeam).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/all", teamService.GetTeams).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/{id}", teamService.DeleteTeam).Methods(http.MethodDelete)
	protectedRouter.HandleFunc("/{id}/members", teamService.GetTeamMembers).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/{id}/members", teamService.AddTeamMember).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/{id}/members/{memberID}", teamService.RemoveTeamMember).Methods(http.MethodDelete)
}

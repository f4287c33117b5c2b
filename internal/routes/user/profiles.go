package userRoutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/middleware"
	profileService "github.com/teamworkhq/teamwork/internal/service/users"
)

func UserProfileRoutes(router *mux.Router) {
	profileService := profileService.NewProfileService()

	// Protected routes requiring authentication
	protectedRouter := router.PathPrefix("/user").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware, middleware.ResponseWrapperMiddleware)

	// Membership resolution runs first on session start; a needs_setup
	// response routes the client to organization onboarding.
	protectedRouter.HandleFunc("/membership", profileService.GetMembership).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/profile", profileService.GetUserProfile).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/profile", profileService.UpdateUserProfile).Methods(http.MethodPut)
}

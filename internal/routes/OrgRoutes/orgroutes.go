package orgroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/middleware"
	organizationService "github.com/teamworkhq/teamwork/internal/service/organization"
)

func OrgRoutes(router *mux.Router) {
	orgService := organizationService.NewOrganizationService()

	protectedRouter := router.PathPrefix("/org").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/create", orgService.CreateOrganization).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/join", orgService.JoinOrganization).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/regenerate", orgService.RegenerateCode).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/employees", orgService.ListEmployees).Methods(http.MethodGet)
	protectedRouter.HandleFunc("", orgService.GetOrganization).Methods(http.MethodGet)
}

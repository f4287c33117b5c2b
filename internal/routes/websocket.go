package routes

import (
	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/handlers"
	"github.com/teamworkhq/teamwork/internal/middleware"
)

func RegisterWebSocketRoutes(router *mux.Router) {
	feedHandler := handlers.NewFeedHandler()

	wsRouter := router.PathPrefix("/ws").Subrouter()
	wsRouter.Use(middleware.AuthMiddleware)
	wsRouter.HandleFunc("/attendance", feedHandler.HandleFeed)
}

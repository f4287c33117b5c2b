package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/routes"
)

func main() {
	database.InitDB()
	router := routes.RegisterAllRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	fmt.Printf("Server is running on %s...\n", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

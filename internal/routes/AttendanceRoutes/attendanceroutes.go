package attendanceroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/middleware"
	attendanceService "github.com/teamworkhq/teamwork/internal/service/attendance"
)

func AttendanceRoutes(router *mux.Router) {
	attendance := attendanceService.NewAttendanceService()

	protectedRouter := router.PathPrefix("/attendance").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/check-in", attendance.CheckIn).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/check-out", attendance.CheckOut).Methods(http.MethodPost)
	protectedRouter.HandleFunc("/today", attendance.TodayRecord).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/records", attendance.ListRecords).Methods(http.MethodGet)
}

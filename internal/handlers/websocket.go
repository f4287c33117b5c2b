package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	"github.com/teamworkhq/teamwork/internal/orgcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, replace with proper origin checking
	},
}

// FeedHandler upgrades dashboard clients onto the live attendance feed.
type FeedHandler struct {
	hub *models.Hub
}

// NewFeedHandler creates a feed handler bound to the shared hub.
func NewFeedHandler() *FeedHandler {
	return &FeedHandler{hub: models.GetHub()}
}

// HandleFeed subscribes the caller to its organization's attendance
// events. The org code arrives as a query parameter, the same string
// the dashboard already holds.
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	code := orgcode.Normalize(r.URL.Query().Get("org_code"))
	if !orgcode.Valid(code) {
		http.Error(w, "A valid org_code is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	client := &models.Client{
		Hub:     h.hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  strconv.FormatInt(userID, 10),
		OrgCode: code,
	}

	h.hub.Register <- client
	log.Printf("Attendance feed subscriber joined org %s (%d already active)", code, h.hub.SubscriberCount(code))

	go client.WritePump()
	go client.ReadPump()
}

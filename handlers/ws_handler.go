package handlers

import (
	"net/http"

	"github.com/harshitsaini01/incentum-main-sub000/middleware"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
	"github.com/harshitsaini01/incentum-main-sub000/websocket"
)

// WebSocketEndpoint upgrades authenticated clients onto the notification hub.
// Users join their own channel, admins join the shared admin channel.
func WebSocketEndpoint(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.CtxUserID).(string)
	role, _ := r.Context().Value(middleware.CtxUserRole).(string)

	if role == "" || (role == "user" && userID == "") {
		utils.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	websocket.ServeWS(w, r, userID, role == "admin")
}

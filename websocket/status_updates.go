package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// StatusUpdate represents a real-time application update
type StatusUpdate struct {
	Type          string      `json:"type"` // APPLICATION_SUBMITTED, STATUS_CHANGED, COMMENT_ADDED
	ApplicationID string      `json:"applicationId"`
	Data          interface{} `json:"data,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	ActorID       string      `json:"actorId,omitempty"`
	ActorName     string      `json:"actorName,omitempty"`
}

// broadcast sends the update to every connection on a channel.
func broadcast(channel string, update StatusUpdate) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	clients, ok := hub.clients[channel]
	if !ok {
		return
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal status update: %v", err)
		return
	}

	for c := range clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(clients, c)
		}
	}
}

// notify fans one update out to the owning user and to the admin group.
func notify(ownerUserID string, update StatusUpdate) {
	if ownerUserID != "" {
		broadcast(ownerUserID, update)
	}
	broadcast(adminChannel, update)
}

// SendApplicationSubmitted broadcasts a new submission.
func SendApplicationSubmitted(ownerUserID, applicationID, actorID, actorName string) {
	notify(ownerUserID, StatusUpdate{
		Type:          "APPLICATION_SUBMITTED",
		ApplicationID: applicationID,
		Timestamp:     time.Now(),
		ActorID:       actorID,
		ActorName:     actorName,
	})
}

// SendStatusChange broadcasts an admin status transition.
func SendStatusChange(ownerUserID, applicationID, oldStatus, newStatus, actorID, actorName string) {
	notify(ownerUserID, StatusUpdate{
		Type:          "STATUS_CHANGED",
		ApplicationID: applicationID,
		Data: map[string]interface{}{
			"oldStatus": oldStatus,
			"newStatus": newStatus,
		},
		Timestamp: time.Now(),
		ActorID:   actorID,
		ActorName: actorName,
	})
}

// SendCommentAdded broadcasts a new user-visible comment. Internal notes only
// reach the admin group.
func SendCommentAdded(ownerUserID, applicationID string, isInternal bool, actorID, actorName string) {
	update := StatusUpdate{
		Type:          "COMMENT_ADDED",
		ApplicationID: applicationID,
		Timestamp:     time.Now(),
		ActorID:       actorID,
		ActorName:     actorName,
	}
	if isInternal {
		broadcast(adminChannel, update)
		return
	}
	notify(ownerUserID, update)
}

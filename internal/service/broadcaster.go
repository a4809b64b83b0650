package service

// Broadcaster pushes realtime messages to a user's open websocket connections
// (implemented by ws.Hub)
type Broadcaster interface {
	NotifyUser(userID string, msgType string, payload interface{})
}

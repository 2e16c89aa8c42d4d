/*
Package session contains the core logic for presentation rooms: room state,
timeouts, broadcasting, and the connection lifecycle.

This file defines the wire protocol: the closed set of inbound client events
and outbound server events, carried as JSON envelopes tagged by type.
*/
package session

import "encoding/json"

// EventType tags a websocket message in either direction.
type EventType string

// Inbound event types (client to server).
const (
	EventCreateRoom   EventType = "createRoom"
	EventJoinRoom     EventType = "joinRoom"
	EventChangePage   EventType = "changePage"
	EventNewFile      EventType = "newFile"
	EventAdminLogout  EventType = "adminLogout"
	EventUserLogout   EventType = "userLogout"
	EventUserActivity EventType = "userActivity"
)

// Outbound event types (server to client).
const (
	EventRoomCreated       EventType = "roomCreated"
	EventJoinError         EventType = "joinError"
	EventNewPDF            EventType = "newPDF"
	EventPageChange        EventType = "pageChange"
	EventSessionTimeout    EventType = "sessionTimeout"
	EventInactivityTimeout EventType = "inactivityTimeout"
	EventAdminLoggedOut    EventType = "adminLoggedOut"
	EventError             EventType = "error"
)

// InboundEnvelope is the outer frame of every client message. The payload
// is decoded per type; unknown types are logged and dropped.
type InboundEnvelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinRoomPayload carries the code of the room to join.
type JoinRoomPayload struct {
	Code string `json:"code"`
}

// ChangePagePayload carries the page the admin navigated to. The value is
// passed through as-is; bounds are not validated.
type ChangePagePayload struct {
	Page int `json:"page"`
}

// NewFilePayload carries the storage path returned by the upload endpoint.
type NewFilePayload struct {
	FilePath string `json:"filePath"`
}

// LogoutPayload carries the room code for adminLogout and userLogout.
type LogoutPayload struct {
	Code string `json:"code"`
}

// Outbound is a server-to-client event. Exactly the fields relevant to the
// event type are set; the rest are omitted from the JSON. Page is a pointer
// so that page 0, which the pass-through semantics allow, still appears on
// the wire instead of being dropped as a zero value.
type Outbound struct {
	Type     EventType `json:"type"`
	Code     string    `json:"code,omitempty"`
	Page     *int      `json:"page,omitempty"`
	FilePath string    `json:"filePath,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// RoomCreated acknowledges room creation with the allocated code.
func RoomCreated(code string) Outbound {
	return Outbound{Type: EventRoomCreated, Code: code}
}

// JoinError reports a failed join attempt.
func JoinError(message string) Outbound {
	return Outbound{Type: EventJoinError, Message: message}
}

// NewPDF announces the current presentation file.
func NewPDF(filePath string) Outbound {
	return Outbound{Type: EventNewPDF, FilePath: filePath}
}

// PageChange announces the current page.
func PageChange(page int) Outbound {
	return Outbound{Type: EventPageChange, Page: &page}
}

// SessionTimeout is the terminal signal of a room torn down by expiry.
func SessionTimeout() Outbound {
	return Outbound{Type: EventSessionTimeout}
}

// InactivityTimeout notifies a single idle connection before it is dropped.
func InactivityTimeout() Outbound {
	return Outbound{Type: EventInactivityTimeout}
}

// AdminLoggedOut is the terminal signal of a room torn down because its
// admin left, whether by explicit logout or by disconnect.
func AdminLoggedOut() Outbound {
	return Outbound{Type: EventAdminLoggedOut}
}

// ErrorEvent reports a per-request failure to the offending connection.
func ErrorEvent(message string) Outbound {
	return Outbound{Type: EventError, Message: message}
}

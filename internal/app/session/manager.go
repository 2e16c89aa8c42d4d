/*
Package session contains the core logic for presentation rooms.

This file defines the Manager, the top-level coordinator. Inbound events,
timer expiries, and disconnect notifications all funnel through it: it
consults the admin gate, mutates the Store, resets timers, and asks the
Router to fan results out. Teardown of a room converges here regardless of
which of the three causes triggered it.
*/
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"slidecast/internal/app/storage"
	"slidecast/internal/configs"
	"slidecast/internal/pkg/errs"
	"slidecast/internal/pkg/logx"
	"slidecast/internal/pkg/randx"
)

// connEntry is the Manager's record of one live connection.
type connEntry struct {
	// roomCode is the room the connection currently belongs to, empty while
	// unattached.
	roomCode string
}

// Manager coordinates rooms, connections, and their two timeout classes.
type Manager struct {
	config *configs.AppConfig

	store  *Store
	router *Router
	sched  Scheduler
	files  storage.Service

	// mu protects the conns map. Every event handler completes its state
	// transition under this lock; nothing it calls blocks.
	mu    sync.Mutex
	conns map[string]*connEntry

	logger zerolog.Logger
}

// NewManager constructs a Manager wired to the given scheduler and storage
// service.
func NewManager(cfg *configs.AppConfig, sched Scheduler, files storage.Service) *Manager {
	return &Manager{
		config: cfg,
		store:  NewStore(),
		router: NewRouter(),
		sched:  sched,
		files:  files,
		conns:  make(map[string]*connEntry),
		logger: logx.Logger().With().Str("component", "Manager").Logger(),
	}
}

// sessionKey is the scheduler key of a room's session timer.
func sessionKey(code string) string {
	return "room:" + code
}

// inactivityKey is the scheduler key of a connection's inactivity timer.
func inactivityKey(connID string) string {
	return "conn:" + connID
}

// Connect registers a new, unattached connection and starts its inactivity
// timer.
func (m *Manager) Connect(connID string, conn Conn) {
	m.router.Register(connID, conn)

	m.mu.Lock()
	m.conns[connID] = &connEntry{}
	m.resetInactivityLocked(connID)
	m.mu.Unlock()

	m.logger.Info().Str("conn_id", connID).Msg("Connection registered.")
}

// Disconnect finalizes a closed connection: its timer is cancelled, it is
// removed from its room, and an admin departure tears the room down. Safe
// to call twice; the second call finds no entry and returns.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.conns[connID]
	if !ok {
		return
	}

	code := entry.roomCode
	delete(m.conns, connID)
	m.sched.Cancel(inactivityKey(connID))
	m.router.Unregister(connID)

	if code != "" {
		adminLeft, cerr := m.store.Leave(code, connID)
		if cerr == nil && adminLeft {
			m.teardownLocked(code, CauseAdminDisconnected)
		}
	}

	m.logger.Info().Str("conn_id", connID).Msg("Connection finalized.")
}

// HandleEvent dispatches one raw inbound message from connID. A panic in
// any handler is caught here, at the loop boundary, so a single bad event
// cannot take the service down with it.
func (m *Manager) HandleEvent(connID string, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("conn_id", connID).
				Interface("panic", r).
				Msg("Recovered from panic in event handler.")
		}
	}()

	var env InboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		m.logger.Warn().Err(err).Str("conn_id", connID).Msg("Connection sent invalid JSON.")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.conns[connID]
	if !ok {
		return
	}

	switch env.Type {
	case EventCreateRoom:
		m.handleCreateRoom(connID, entry)

	case EventJoinRoom:
		m.handleJoinRoom(connID, entry, env.Payload)

	case EventChangePage:
		m.handleChangePage(connID, entry, env.Payload)

	case EventNewFile:
		m.handleNewFile(connID, entry, env.Payload)

	case EventAdminLogout:
		m.handleAdminLogout(connID, entry, env.Payload)

	case EventUserLogout:
		m.handleUserLogout(connID, entry, env.Payload)

	case EventUserActivity:
		m.resetInactivityLocked(connID)

	default:
		m.logger.Warn().
			Str("conn_id", connID).
			Str("event_type", string(env.Type)).
			Msg("Connection sent unsupported event type.")
	}
}

// handleCreateRoom allocates a room with the caller as admin. A connection
// already in a room is rejected; the first room keeps its seat.
func (m *Manager) handleCreateRoom(connID string, entry *connEntry) {
	if entry.roomCode != "" {
		m.router.SendTo(connID, ErrorEvent(errs.NewError(errs.ErrAlreadyInRoom).Message))
		return
	}

	code, cerr := m.store.Create(connID)
	if cerr != nil {
		m.router.SendTo(connID, ErrorEvent(cerr.Message))
		return
	}

	entry.roomCode = code
	m.resetSessionLocked(code)
	m.resetInactivityLocked(connID)
	m.router.SendTo(connID, RoomCreated(code))
}

// handleJoinRoom adds the caller to an existing room and replays the
// current file and page when a file has been set.
func (m *Manager) handleJoinRoom(connID string, entry *connEntry, payload json.RawMessage) {
	if entry.roomCode != "" {
		m.router.SendTo(connID, JoinError(errs.NewError(errs.ErrAlreadyInRoom).Message))
		return
	}

	var p JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || !randx.IsValidRoomCode(p.Code) {
		m.router.SendTo(connID, JoinError(errs.NewError(errs.ErrRoomNotFound).Message))
		return
	}

	snap, hasFile, cerr := m.store.Join(p.Code, connID)
	if cerr != nil {
		m.router.SendTo(connID, JoinError(cerr.Message))
		return
	}

	entry.roomCode = p.Code
	m.resetSessionLocked(p.Code)
	m.resetInactivityLocked(connID)

	if hasFile {
		m.router.SendTo(connID, NewPDF(snap.FilePath))
		m.router.SendTo(connID, PageChange(snap.Page))
	}
}

// handleChangePage applies an admin page navigation and broadcasts it to
// the room.
func (m *Manager) handleChangePage(connID string, entry *connEntry, payload json.RawMessage) {
	if entry.roomCode == "" {
		m.denyMutation(connID, errs.NewError(errs.ErrNotInRoom))
		return
	}

	var p ChangePagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		m.logger.Warn().Str("conn_id", connID).Msg("Connection sent invalid changePage payload.")
		return
	}

	page, cerr := m.store.ChangePage(entry.roomCode, connID, p.Page)
	if cerr != nil {
		m.denyMutation(connID, cerr)
		return
	}

	m.resetSessionLocked(entry.roomCode)
	m.router.SendToMembers(m.store.Members(entry.roomCode), PageChange(page))
}

// handleNewFile records an admin upload and broadcasts the new file path
// to the room.
func (m *Manager) handleNewFile(connID string, entry *connEntry, payload json.RawMessage) {
	if entry.roomCode == "" {
		m.denyMutation(connID, errs.NewError(errs.ErrNotInRoom))
		return
	}

	var p NewFilePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.FilePath == "" {
		m.logger.Warn().Str("conn_id", connID).Msg("Connection sent invalid newFile payload.")
		return
	}

	filePath, cerr := m.store.SetFile(entry.roomCode, connID, p.FilePath)
	if cerr != nil {
		m.denyMutation(connID, cerr)
		return
	}

	m.resetSessionLocked(entry.roomCode)
	m.router.SendToMembers(m.store.Members(entry.roomCode), NewPDF(filePath))
}

// handleAdminLogout tears the caller's room down if the caller is its
// admin.
func (m *Manager) handleAdminLogout(connID string, entry *connEntry, payload json.RawMessage) {
	code := entry.roomCode
	if code == "" {
		m.denyMutation(connID, errs.NewError(errs.ErrNotInRoom))
		return
	}

	if !m.payloadMatchesRoom(connID, code, payload) {
		return
	}

	isAdmin, cerr := m.store.IsRoomAdmin(code, connID)
	if cerr != nil {
		return
	}
	if !isAdmin {
		m.denyMutation(connID, errs.NewError(errs.ErrNotAdmin))
		return
	}

	m.teardownLocked(code, CauseAdminLogout)
}

// handleUserLogout removes the caller from its room. An admin explicitly
// logging out takes the teardown path instead of a plain removal.
func (m *Manager) handleUserLogout(connID string, entry *connEntry, payload json.RawMessage) {
	code := entry.roomCode
	if code == "" {
		return
	}

	if !m.payloadMatchesRoom(connID, code, payload) {
		return
	}

	adminLeft, cerr := m.store.Leave(code, connID)
	if cerr != nil {
		entry.roomCode = ""
		return
	}

	if adminLeft {
		m.teardownLocked(code, CauseAdminLogout)
		return
	}

	entry.roomCode = ""
}

// payloadMatchesRoom checks a logout payload's room code against the room
// the connection is actually in. The connection's own record stays the
// authority; a payload naming a different room is dropped rather than acted
// on. A missing or empty payload is tolerated.
func (m *Manager) payloadMatchesRoom(connID, code string, payload json.RawMessage) bool {
	if len(payload) == 0 {
		return true
	}

	var p LogoutPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		m.logger.Warn().Str("conn_id", connID).Msg("Connection sent invalid logout payload.")
		return false
	}

	if p.Code != "" && p.Code != code {
		m.logger.Warn().
			Str("conn_id", connID).
			Str("claimed_code", p.Code).
			Str("room_code", code).
			Msg("Logout event named a room the connection is not in.")
		return false
	}

	return true
}

// teardownLocked destroys a room: terminal signal to every member, deletion
// of every file ever recorded for the room, cancellation of the room's
// session timer and every member's inactivity timer, and removal of the
// record. Idempotent — if the room is already gone (a timer fired into the
// same path an explicit logout just took), this is a silent no-op.
// Caller must hold m.mu.
func (m *Manager) teardownLocked(code string, cause TeardownCause) {
	room, ok := m.store.Remove(code)
	if !ok {
		return
	}

	signal := AdminLoggedOut()
	if cause == CauseSessionTimedOut {
		signal = SessionTimeout()
	}
	m.router.SendToMembers(room.MemberIDs(), signal)

	// Best-effort: a storage failure on one file must not strand the rest.
	ctx := context.Background()
	for _, name := range room.Files {
		if err := m.files.Delete(ctx, name); err != nil {
			m.logger.Warn().
				Err(err).
				Str("room_code", code).
				Str("file", name).
				Msg("Failed to delete room file during teardown.")
		}
	}

	m.sched.Cancel(sessionKey(code))
	for id := range room.Members {
		m.sched.Cancel(inactivityKey(id))
		if entry, live := m.conns[id]; live && entry.roomCode == code {
			entry.roomCode = ""
		}
	}

	m.logger.Info().
		Str("room_code", code).
		Str("cause", cause.String()).
		Int("files_deleted", len(room.Files)).
		Msg("Room torn down.")
}

// denyMutation handles an unauthorized mutation attempt. The historical
// behavior is a silent no-op; SurfaceAuthErrors switches to an explicit
// error event.
func (m *Manager) denyMutation(connID string, cerr *errs.CustomError) {
	if m.config.SurfaceAuthErrors {
		m.router.SendTo(connID, ErrorEvent(cerr.Message))
		return
	}

	m.logger.Debug().
		Str("conn_id", connID).
		Int("code", cerr.Code).
		Msg("Unauthorized mutation attempt ignored.")
}

// resetSessionLocked restarts the room's session timer. Called on room
// creation, on join, and on every admin-authorized mutation.
func (m *Manager) resetSessionLocked(code string) {
	m.sched.After(sessionKey(code), m.config.SessionTimeout, func() {
		m.onSessionTimeout(code)
	})
}

// resetInactivityLocked restarts the connection's inactivity timer. Called
// on connect, on create/join, and on an explicit userActivity signal.
func (m *Manager) resetInactivityLocked(connID string) {
	m.sched.After(inactivityKey(connID), m.config.InactivityTimeout, func() {
		m.onInactivityTimeout(connID)
	})
}

// onSessionTimeout re-enters the teardown path when a room's session timer
// fires.
func (m *Manager) onSessionTimeout(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().Str("room_code", code).Msg("Session timeout fired.")
	m.teardownLocked(code, CauseSessionTimedOut)
}

// onInactivityTimeout notifies one idle connection and forces it closed.
// Only that connection is affected; its room and the other members are
// untouched unless the disconnect itself is an admin departure.
func (m *Manager) onInactivityTimeout(connID string) {
	m.mu.Lock()
	_, live := m.conns[connID]
	m.mu.Unlock()

	if !live {
		return
	}

	m.logger.Info().Str("conn_id", connID).Msg("Inactivity timeout fired, forcing disconnect.")

	m.router.SendTo(connID, InactivityTimeout())
	m.router.CloseConn(connID)
	m.Disconnect(connID)
}

// Shutdown tears down every live room, signalling members and deleting
// room files, then returns. Called during graceful process shutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	codes := m.store.Codes()
	for _, code := range codes {
		m.teardownLocked(code, CauseSessionTimedOut)
	}

	m.logger.Info().Int("rooms", len(codes)).Msg("Manager shutdown complete.")
}

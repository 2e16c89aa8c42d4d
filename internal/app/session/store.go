/*
Package session contains the core logic for presentation rooms.

This file defines the Store, which owns every live Room record. It enforces
code uniqueness at issuance, the admin gate on mutations, and idempotent
removal. The Store holds state only; broadcasting, timers, and file cleanup
belong to the Manager.
*/
package session

import (
	"path"
	"sync"

	"github.com/rs/zerolog"

	"slidecast/internal/pkg/errs"
	"slidecast/internal/pkg/logx"
	"slidecast/internal/pkg/randx"
)

// maxCreateAttempts bounds code sampling retries. The value space (900000)
// is large relative to any plausible number of concurrent rooms, so hitting
// the bound means something is wrong rather than bad luck.
const maxCreateAttempts = 128

// Snapshot is the room state handed to a joining connection.
type Snapshot struct {
	FilePath string
	Page     int
}

// Store owns all live Room records, keyed by room code.
type Store struct {
	// mu protects concurrent access to the rooms map and every Room in it.
	mu sync.RWMutex

	rooms map[string]*Room

	logger zerolog.Logger
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		rooms:  make(map[string]*Room),
		logger: logx.Logger().With().Str("component", "Store").Logger(),
	}
}

// Create allocates a room for adminID under a freshly sampled 6-digit code,
// retrying on collision with live codes. The new room starts at page 1 with
// no file and the admin as sole member.
func (s *Store) Create(adminID string) (string, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := randx.RoomCode()
		if err != nil {
			s.logger.Error().Err(err).Msg("Room code generation failed.")
			return "", errs.NewError(errs.ErrUnknown)
		}

		if _, taken := s.rooms[code]; taken {
			continue
		}

		s.rooms[code] = &Room{
			Code:        code,
			AdminID:     adminID,
			CurrentPage: 1,
			Members:     map[string]struct{}{adminID: {}},
		}

		s.logger.Info().Str("room_code", code).Str("admin_id", adminID).Msg("Room created.")
		return code, nil
	}

	s.logger.Error().Int("attempts", maxCreateAttempts).Msg("Room code space exhausted.")
	return "", errs.NewError(errs.ErrCodeSpaceExhausted)
}

// Join adds connID to the room's member set and returns the current state.
// The returned bool reports whether a file has been set; without one there
// is nothing to send the joiner.
func (s *Store) Join(code, connID string) (Snapshot, bool, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return Snapshot{}, false, errs.NewError(errs.ErrRoomNotFound)
	}

	room.Members[connID] = struct{}{}

	s.logger.Info().
		Str("room_code", code).
		Str("conn_id", connID).
		Int("members", len(room.Members)).
		Msg("Connection joined room.")

	if room.CurrentFile == "" {
		return Snapshot{}, false, nil
	}

	return Snapshot{FilePath: room.CurrentFile, Page: room.CurrentPage}, true, nil
}

// ChangePage sets the room's current page if connID is the admin and
// returns the new page for broadcast. The page value is not validated.
func (s *Store) ChangePage(code, connID string, page int) (int, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return 0, errs.NewError(errs.ErrRoomNotFound)
	}

	if !IsAdmin(room, connID) {
		return 0, errs.NewError(errs.ErrNotAdmin)
	}

	room.CurrentPage = page
	return room.CurrentPage, nil
}

// SetFile records a newly uploaded file if connID is the admin: the stored
// name (basename) is appended to the room's deletion list and the path
// becomes the current file. Returns the path for broadcast.
func (s *Store) SetFile(code, connID, filePath string) (string, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return "", errs.NewError(errs.ErrRoomNotFound)
	}

	if !IsAdmin(room, connID) {
		return "", errs.NewError(errs.ErrNotAdmin)
	}

	room.Files = append(room.Files, path.Base(filePath))
	room.CurrentFile = filePath

	s.logger.Info().
		Str("room_code", code).
		Str("file_path", filePath).
		Int("file_count", len(room.Files)).
		Msg("Room file set.")

	return room.CurrentFile, nil
}

// Leave removes connID from the room's member set. If connID is the admin
// the member set is left untouched and adminLeft is true: the caller must
// run the full teardown instead, which removes the whole room.
func (s *Store) Leave(code, connID string) (adminLeft bool, cerr *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return false, errs.NewError(errs.ErrRoomNotFound)
	}

	if IsAdmin(room, connID) {
		return true, nil
	}

	delete(room.Members, connID)

	s.logger.Info().
		Str("room_code", code).
		Str("conn_id", connID).
		Int("members", len(room.Members)).
		Msg("Connection left room.")

	return false, nil
}

// IsRoomAdmin consults the admin gate for an existing room.
func (s *Store) IsRoomAdmin(code, connID string) (bool, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return false, errs.NewError(errs.ErrRoomNotFound)
	}

	return IsAdmin(room, connID), nil
}

// Remove deletes the room and returns its final record for cleanup. The
// second return is false when the room no longer exists, which makes
// teardown idempotent: a timer firing can race an explicit logout into the
// same path.
func (s *Store) Remove(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}

	delete(s.rooms, code)
	s.logger.Info().Str("room_code", code).Msg("Room removed.")
	return room, true
}

// Members returns a snapshot of the room's member ids, or nil for an
// unknown code.
func (s *Store) Members(code string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil
	}
	return room.MemberIDs()
}

// Page returns the room's current page, for state inspection.
func (s *Store) Page(code string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return 0, false
	}
	return room.CurrentPage, true
}

// Codes returns a snapshot of all live room codes.
func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Len reports the number of live rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

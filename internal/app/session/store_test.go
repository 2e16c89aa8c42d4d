package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"slidecast/internal/pkg/errs"
	"slidecast/internal/pkg/randx"
)

func TestStore_CreateIssuesUniqueWellFormedCodes(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, cerr := s.Create("admin")
		req.Nil(cerr)
		req.True(randx.IsValidRoomCode(code), "code %q is not 6 digits in range", code)

		_, dup := seen[code]
		req.False(dup, "code %q issued twice", code)
		seen[code] = struct{}{}
	}

	req.Equal(200, s.Len())
}

func TestStore_CreateInitializesRoomState(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, cerr := s.Create("admin-1")
	req.Nil(cerr)

	room := s.rooms[code]
	req.Equal("admin-1", room.AdminID)
	req.Equal(1, room.CurrentPage)
	req.Empty(room.CurrentFile)
	req.Empty(room.Files)
	req.Contains(room.Members, "admin-1")
	req.Len(room.Members, 1)
}

func TestStore_JoinUnknownCode(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	_, _, cerr := s.Join("123456", "conn-1")
	req.NotNil(cerr)
	req.Equal(errs.ErrRoomNotFound, cerr.Code)
	req.Equal(0, s.Len())
}

func TestStore_JoinReturnsSnapshotOnlyWithFile(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")

	_, hasFile, cerr := s.Join(code, "member-1")
	req.Nil(cerr)
	req.False(hasFile, "no file set yet, nothing to send")

	_, cerr = s.SetFile(code, "admin", "/uploads/deck.pdf")
	req.Nil(cerr)
	_, cerr = s.ChangePage(code, "admin", 7)
	req.Nil(cerr)

	snap, hasFile, cerr := s.Join(code, "member-2")
	req.Nil(cerr)
	req.True(hasFile)
	req.Equal("/uploads/deck.pdf", snap.FilePath)
	req.Equal(7, snap.Page)

	req.ElementsMatch([]string{"admin", "member-1", "member-2"}, s.Members(code))
}

func TestStore_ChangePageRejectsNonAdmin(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")
	_, _, cerr := s.Join(code, "member")
	req.Nil(cerr)

	_, cerr = s.ChangePage(code, "member", 5)
	req.NotNil(cerr)
	req.Equal(errs.ErrNotAdmin, cerr.Code)

	page, ok := s.Page(code)
	req.True(ok)
	req.Equal(1, page, "non-admin attempt must not change the page")
}

func TestStore_ChangePagePassesValueThrough(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")

	// The page value is not validated; whatever the admin sets sticks.
	page, cerr := s.ChangePage(code, "admin", -3)
	req.Nil(cerr)
	req.Equal(-3, page)
}

func TestStore_SetFileAppendsBasename(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")

	filePath, cerr := s.SetFile(code, "admin", "/uploads/pdf-123.pdf")
	req.Nil(cerr)
	req.Equal("/uploads/pdf-123.pdf", filePath)

	_, cerr = s.SetFile(code, "admin", "/uploads/pdf-456.pdf")
	req.Nil(cerr)

	room := s.rooms[code]
	req.Equal([]string{"pdf-123.pdf", "pdf-456.pdf"}, room.Files)
	req.Equal("/uploads/pdf-456.pdf", room.CurrentFile)
}

func TestStore_SetFileRejectsNonAdmin(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")
	_, _, cerr := s.Join(code, "member")
	req.Nil(cerr)

	_, cerr = s.SetFile(code, "member", "/uploads/evil.pdf")
	req.NotNil(cerr)
	req.Equal(errs.ErrNotAdmin, cerr.Code)

	room := s.rooms[code]
	req.Empty(room.Files)
	req.Empty(room.CurrentFile)
}

func TestStore_LeaveMemberRemovesFromSet(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")
	_, _, cerr := s.Join(code, "member")
	req.Nil(cerr)

	adminLeft, cerr := s.Leave(code, "member")
	req.Nil(cerr)
	req.False(adminLeft)
	req.ElementsMatch([]string{"admin"}, s.Members(code))
}

func TestStore_LeaveAdminSignalsTeardown(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")
	_, _, cerr := s.Join(code, "member")
	req.Nil(cerr)

	adminLeft, cerr := s.Leave(code, "admin")
	req.Nil(cerr)
	req.True(adminLeft)

	// The admin seat is never vacated piecemeal; the room stays intact for
	// the caller to run the full teardown.
	req.ElementsMatch([]string{"admin", "member"}, s.Members(code))
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")

	room, ok := s.Remove(code)
	req.True(ok)
	req.Equal(code, room.Code)
	req.Equal(0, s.Len())

	room, ok = s.Remove(code)
	req.False(ok)
	req.Nil(room)
}

func TestStore_IsRoomAdmin(t *testing.T) {
	req := require.New(t)
	s := NewStore()

	code, _ := s.Create("admin")
	_, _, cerr := s.Join(code, "member")
	req.Nil(cerr)

	isAdmin, cerr := s.IsRoomAdmin(code, "admin")
	req.Nil(cerr)
	req.True(isAdmin)

	isAdmin, cerr = s.IsRoomAdmin(code, "member")
	req.Nil(cerr)
	req.False(isAdmin)

	_, cerr = s.IsRoomAdmin("000000", "admin")
	req.NotNil(cerr)
}

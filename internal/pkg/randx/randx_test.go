package randx

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomCodeFormatAndRange(t *testing.T) {
	req := require.New(t)

	for i := 0; i < 1000; i++ {
		code, err := RoomCode()
		req.NoError(err)
		req.Len(code, RoomCodeLength)

		n, err := strconv.Atoi(code)
		req.NoError(err, "code %q is not numeric", code)
		req.GreaterOrEqual(n, 100000)
		req.LessOrEqual(n, 999999)
	}
}

func TestIsValidRoomCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"100000", true},
		{"999999", true},
		{"123456", true},
		{"099999", false}, // below range
		{"12345", false},  // too short
		{"1234567", false},
		{"", false},
		{"12a456", false},
		{"12 456", false},
		{"１２３４５６", false}, // full-width digits
		{"-12345", false},
	}

	for _, tc := range cases {
		if got := IsValidRoomCode(tc.code); got != tc.want {
			t.Errorf("IsValidRoomCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestConnectionIDUnique(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ConnectionID()
		req.NotEmpty(id)

		_, dup := seen[id]
		req.False(dup, "connection id %q issued twice", id)
		seen[id] = struct{}{}
	}
}

func TestStoredFileNameKeepsExtension(t *testing.T) {
	req := require.New(t)

	name := StoredFileName(".pdf")
	req.True(strings.HasSuffix(name, ".pdf"))
	req.NotContains(name, "/")

	other := StoredFileName(".pdf")
	req.NotEqual(name, other, "two uploads must never share a stored name")
}

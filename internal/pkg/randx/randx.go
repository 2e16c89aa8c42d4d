/*
Package randx provides cryptographically secure random identifiers.

It generates the 6-digit numeric room codes, websocket connection IDs, and
collision-resistant stored file names for uploads.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// RoomCodeLength is the fixed length of a room code.
	RoomCodeLength = 6

	// roomCodeMin is the smallest valid room code value.
	roomCodeMin = 100000

	// roomCodeSpan is the size of the room code value range [100000, 999999].
	roomCodeSpan = 900000
)

// RoomCode samples a room code uniformly from [100000, 999999] using
// crypto/rand and returns it as a 6-digit decimal string.
func RoomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(roomCodeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number for room code: %w", err)
	}

	return strconv.FormatInt(n.Int64()+roomCodeMin, 10), nil
}

// IsValidRoomCode reports whether code is exactly 6 ASCII digits with a
// value in [100000, 999999]. The range check reduces to "first digit is
// not zero" for a 6-digit string.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for i, char := range code {
		if char < '0' || char > '9' {
			return false
		}
		if i == 0 && char == '0' {
			return false
		}
	}

	return true
}

// ConnectionID mints a unique identifier for a websocket connection.
func ConnectionID() string {
	return uuid.New().String()
}

// StoredFileName builds a collision-resistant name for an uploaded file
// from the current time, a random component, and the original extension.
// A fixed name would make concurrent rooms overwrite each other's uploads.
func StoredFileName(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
}

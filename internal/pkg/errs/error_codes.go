/*
Package errs provides custom error types and application-level error code constants.

These codes identify specific business or system errors both inside the
server and on the wire to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrFormParseFailed indicates failure to parse multipart form data.
	ErrFormParseFailed = 1002

	// ErrRequestEntityTooLarge indicates that the request body exceeded the upload size limit.
	ErrRequestEntityTooLarge = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1004
)

// 2xxx: Room and Session Business Logic Errors
const (
	// ErrRoomNotFound indicates that no live room exists for the given code.
	ErrRoomNotFound = 2101

	// ErrNotAdmin indicates a state mutation attempted by a connection that is not the room admin.
	ErrNotAdmin = 2102

	// ErrAlreadyInRoom indicates a createRoom attempt by a connection that is already in a room.
	ErrAlreadyInRoom = 2103

	// ErrNotInRoom indicates a room-scoped event from a connection that is not in any room.
	ErrNotInRoom = 2104

	// ErrCodeSpaceExhausted indicates room code generation gave up after too many collisions.
	ErrCodeSpaceExhausted = 2105
)

// 3xxx: File and Storage Errors
const (
	// ErrFileTypeInvalid indicates that an uploaded file is not a PDF.
	ErrFileTypeInvalid = 3101

	// ErrFileSizeTooLarge indicates that an uploaded file exceeds the size ceiling.
	ErrFileSizeTooLarge = 3102

	// ErrFileStorageFailed indicates a storage backend failure while saving a file.
	ErrFileStorageFailed = 3103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)

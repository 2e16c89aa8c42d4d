/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template, standardizing
HTTP responses and outbound websocket error events.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "File is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Session Business Logic Errors
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found."},
	ErrNotAdmin:           {Code: ErrNotAdmin, Message: "Only the presenter can do that."},
	ErrAlreadyInRoom:      {Code: ErrAlreadyInRoom, Message: "You are already in a room."},
	ErrNotInRoom:          {Code: ErrNotInRoom, Message: "You are not in a room."},
	ErrCodeSpaceExhausted: {Code: ErrCodeSpaceExhausted, Message: "Could not allocate a room code. Please try again."},

	// 3xxx: File and Storage Errors
	ErrFileTypeInvalid:   {Code: ErrFileTypeInvalid, Message: "Only PDF files are accepted.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge:  {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}

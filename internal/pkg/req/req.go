/*
Package req provides helpers for HTTP request parsing.

It encapsulates multipart form handling for the upload endpoint, enforcing
the request size ceiling before any file data is read.
*/
package req

import (
	"net/http"
	"strings"

	"slidecast/internal/pkg/errs"
)

const (
	// MaxFormMemory is the amount of memory ParseMultipartForm keeps
	// in-process before spilling file parts to temporary files.
	MaxFormMemory int64 = 4 << 20 // 4 MiB

	// MaxUploadBytes is the ceiling for the entire upload request body,
	// enforced via http.MaxBytesReader.
	MaxUploadBytes int64 = 10 << 20 // 10 MiB
)

// SetupMultipart parses the request as a multipart form, rejecting bodies
// over MaxUploadBytes with a client error.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

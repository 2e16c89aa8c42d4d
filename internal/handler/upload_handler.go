/*
Package handler provides the HTTP handlers and routing setup for the
SlideCast server.

This file contains the PDF upload endpoint. It admits one file per request
under the "pdf" field, enforces the type filter and the 10 MiB ceiling,
and stores the file under a collision-resistant generated name.
*/
package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"slidecast/internal/pkg/errs"
	"slidecast/internal/pkg/logx"
	"slidecast/internal/pkg/randx"
	"slidecast/internal/pkg/req"
	"slidecast/internal/pkg/resp"
)

// UploadFieldName is the multipart field the client sends the file under.
const UploadFieldName = "pdf"

// pdfContentType is the only declared MIME type the endpoint accepts.
const pdfContentType = "application/pdf"

// HandleUpload creates the HandlerFunc for POST /upload. On success it
// responds with the generated storage path the admin then announces to the
// room via a newFile event.
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile(UploadFieldName)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		declaredType := strings.ToLower(header.Header.Get("Content-Type"))

		if ext != ".pdf" || (declaredType != "" && declaredType != pdfContentType) {
			logx.Warn("Upload rejected: not a PDF.", "file_name", header.Filename, "content_type", declaredType)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileTypeInvalid))
			return
		}

		storedName := randx.StoredFileName(ext)

		if err := deps.Storage.Save(r.Context(), storedName, pdfContentType, file, header.Size); err != nil {
			logx.Error(err, "Failed to store uploaded file", "file", storedName)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"filePath": "/uploads/" + storedName,
			"fileName": storedName,
		}
		resp.RespondSuccess(w, r, data)
	}
}

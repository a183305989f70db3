// Package respond provides a set of utility functions to help with the HTTP response handling.
package respond

import (
	"encoding/json"
	"net/http"
)

// Status writes a response with the given status code.
// The response will not contain any data.
func Status(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
}

// JSON writes a JSON response with the given status code and data.
// If data is nil, the response will be null. The Content-Type header is set
// to application/json. All encoding errors are silently ignored.
func JSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if data == nil {
		_, _ = w.Write([]byte("null"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}

// Attachment writes a JSON response that browsers download as a file.
func Attachment(w http.ResponseWriter, code int, filename string, data any) {
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	JSON(w, code, data)
}

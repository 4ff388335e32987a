// Package respond writes the portal's JSON response envelope. Every
// endpoint, success or failure, answers with the same three-field shape so
// clients can branch on code without sniffing payload types.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope wraps every API response. Code mirrors the HTTP status so a
// client reading only the body can still branch on it; Data is omitted for
// errors and empty results.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success envelope carrying data.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, Envelope{Code: status, Message: message, Data: data})
}

// Error writes a failure envelope with no data payload.
func Error(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, Envelope{Code: status, Message: message})
}

func writeEnvelope(w http.ResponseWriter, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(payload.Code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode envelope: %v", err)
	}
}

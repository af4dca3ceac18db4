// Package apiresp writes the JSON envelope shared by every API endpoint:
//
//	{"success": true,  "data": ...}
//	{"success": true,  "message": "Created", "data": {...}}
//	{"success": false, "message": "Project not found"}
package apiresp

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Data writes 200 with a data payload.
func Data(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Message writes a success envelope with a message and optional data.
func Message(w http.ResponseWriter, status int, msg string, data any) {
	write(w, status, envelope{Success: true, Message: msg, Data: data})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{Success: false, Message: msg})
}

// ErrorWithData writes a failure envelope that also carries detail, used
// when part of an operation took effect.
func ErrorWithData(w http.ResponseWriter, status int, msg string, data any) {
	write(w, status, envelope{Success: false, Message: msg, Data: data})
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

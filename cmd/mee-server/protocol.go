// Package main provides a TCP query server for mee.
package main

import (
	"encoding/json"
)

// Request represents a statement sent by a client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's reply to one line.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results. Each row is a JSON object
// holding only the fields present in the underlying record.
type QueryResponse struct {
	Columns        []string          `json:"columns"`
	Rows           []json.RawMessage `json:"rows"`
	RecordsRead    int               `json:"records_read"`
	RecordsScanned int               `json:"records_scanned"`
	TimeMs         float64           `json:"time_ms"`
}

// AuthResponse reports the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}

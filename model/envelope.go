package model

import (
	"encoding/json"
	"strings"
)

// TokenRejectMessage is the in-band marker the OLT puts in an otherwise
// successful response when it no longer accepts the session token.
const TokenRejectMessage = "Token Check Failed"

// Envelope is the response wrapper used by the HSGQ firmware. Every endpoint
// answers HTTP 200 and reports the real outcome in these fields.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

func (e *Envelope) TokenRejected() bool {
	return e.Message == TokenRejectMessage
}

// Success reports whether a mutating call was acknowledged. The firmware is
// inconsistent about which field it uses, so all three observed shapes count.
func (e *Envelope) Success() bool {
	return strings.EqualFold(e.Message, "success") || e.Status == "success" || e.Code == 1
}

// Rows decodes the data field as a table. A missing or null data field is an
// empty table, not an error.
func (e *Envelope) Rows() ([]Row, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var rows []Row
	if err := json.Unmarshal(e.Data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Object decodes the data field as a single record, as returned by the detail
// endpoints.
func (e *Envelope) Object() (Row, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var row Row
	if err := json.Unmarshal(e.Data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

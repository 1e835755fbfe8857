package api

import (
	"encoding/hex"
	"time"
)

type SessionResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Magic        string    `json:"magic"`
	SourceOffset int       `json:"source_offset"`
	TextOffset   int       `json:"text_offset"`
	Entries      int       `json:"entries"`
	Invalid      int       `json:"invalid"`
	Dropped      int       `json:"dropped_bytes"`
	SourceDigest string    `json:"source_digest"`
	CreatedAt    time.Time `json:"created_at"`
}

type EntryResponse struct {
	Index int    `json:"index"`
	ID    uint32 `json:"id"`
	Text  string `json:"text"`
	Valid bool   `json:"valid"`
}

type EntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

type SetTextRequest struct {
	Text string `json:"text"`
}

type AddEntryRequest struct {
	ID    uint32 `json:"id"`
	Text  string `json:"text"`
	Index *int   `json:"index,omitempty"`
}

// AssignmentResponse reports the outcome of a text assignment. Rejected
// assignments still answer 200: rejection is part of normal editing.
type AssignmentResponse struct {
	Entry    EntryResponse `json:"entry"`
	Accepted bool          `json:"accepted"`
	Rune     string        `json:"rejected_rune,omitempty"`
	Position *int          `json:"rejected_position,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *session) summary() SessionResponse {
	f := s.file
	return SessionResponse{
		ID:           s.id,
		Name:         s.name,
		Magic:        hex.EncodeToString(f.Magic[:]),
		SourceOffset: s.sourceOffset,
		TextOffset:   f.MetadataLength(),
		Entries:      len(f.Entries),
		Invalid:      len(f.Invalid()),
		Dropped:      f.Dropped,
		SourceDigest: s.sourceDigest,
		CreatedAt:    s.created,
	}
}

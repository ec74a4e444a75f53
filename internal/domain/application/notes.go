package application

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// LegacyAuthor signs notes recovered from non-JSON admin_notes content.
	LegacyAuthor    = "System"
	MetadataAuthor  = "System"
	MetadataContent = "Verification checklist"
)

// AdminNote is one audit entry. Exactly one note per application may carry
// IsMetadata; it holds the checklist when the dedicated column is absent.
type AdminNote struct {
	Author                string          `json:"author"`
	Timestamp             time.Time       `json:"timestamp"`
	Content               string          `json:"content"`
	IsMetadata            bool            `json:"is_metadata,omitempty"`
	VerificationChecklist []ChecklistItem `json:"verification_checklist,omitempty"`
}

// AdminNotes is the ordered audit trail, stored as JSON text.
type AdminNotes []AdminNote

func (n *AdminNotes) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = nil
	case []byte:
		*n = ParseNotes(string(v))
	case string:
		*n = ParseNotes(v)
	default:
		return fmt.Errorf("admin_notes: unsupported type %T", src)
	}
	return nil
}

func (n AdminNotes) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]AdminNote(n))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ParseNotes decodes stored notes. It accepts a JSON array, a JSON string
// wrapping an array, a single note object, and raw legacy text, which is
// kept as one synthetic note.
func ParseNotes(raw string) AdminNotes {
	return parseNotes(raw, true)
}

func parseNotes(raw string, unwrap bool) AdminNotes {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	var list []AdminNote
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	if unwrap {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err == nil {
			return parseNotes(inner, false)
		}
	}
	if strings.HasPrefix(raw, "{") {
		var one AdminNote
		if err := json.Unmarshal([]byte(raw), &one); err == nil {
			return AdminNotes{one}
		}
	}
	return AdminNotes{{Author: LegacyAuthor, Content: raw}}
}

// Append returns a new sequence with note at the end; n is not modified.
func (n AdminNotes) Append(note AdminNote) AdminNotes {
	out := make(AdminNotes, 0, len(n)+1)
	out = append(out, n...)
	return append(out, note)
}

func (n AdminNotes) Metadata() (AdminNote, bool) {
	for _, note := range n {
		if note.IsMetadata {
			return note, true
		}
	}
	return AdminNote{}, false
}

// WithMetadata replaces the metadata note in place, or appends one when none
// exists. Extra metadata notes are dropped; other notes keep their order.
func (n AdminNotes) WithMetadata(checklist []ChecklistItem, now time.Time) AdminNotes {
	meta := AdminNote{
		Author:                MetadataAuthor,
		Timestamp:             now.UTC(),
		Content:               MetadataContent,
		IsMetadata:            true,
		VerificationChecklist: append([]ChecklistItem(nil), checklist...),
	}
	out := make(AdminNotes, 0, len(n)+1)
	placed := false
	for _, note := range n {
		if !note.IsMetadata {
			out = append(out, note)
			continue
		}
		if !placed {
			out = append(out, meta)
			placed = true
		}
	}
	if !placed {
		out = append(out, meta)
	}
	return out
}

// Entries returns the notes without the metadata record.
func (n AdminNotes) Entries() AdminNotes {
	out := make(AdminNotes, 0, len(n))
	for _, note := range n {
		if !note.IsMetadata {
			out = append(out, note)
		}
	}
	return out
}

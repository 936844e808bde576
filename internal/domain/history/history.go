// Package history records completed orchestrations and lets their owners flag them as saved.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind names the request kind a record was produced by. Each kind has its own table.
type Kind string

const (
	KindMedicalQuery     Kind = "medical-query"
	KindSymptomCheck     Kind = "symptom-check"
	KindMedicineScan     Kind = "medicine-scan"
	KindVoiceInteraction Kind = "voice-interaction"
)

// Kinds lists every record kind in a stable order.
var Kinds = []Kind{KindMedicalQuery, KindSymptomCheck, KindMedicineScan, KindVoiceInteraction}

var kindAliases = map[string]Kind{
	"medical-query":     KindMedicalQuery,
	"query":             KindMedicalQuery,
	"symptom-check":     KindSymptomCheck,
	"symptom":           KindSymptomCheck,
	"medicine-scan":     KindMedicineScan,
	"medicine":          KindMedicineScan,
	"voice-interaction": KindVoiceInteraction,
	"voice":             KindVoiceInteraction,
}

// ParseKind accepts the canonical kind names and their short forms.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// Record is one persisted request/response pair.
type Record struct {
	ID             uint
	Kind           Kind
	UserID         *uint
	RequestSummary string
	Result         json.RawMessage
	ModelID        string
	Provider       string
	Saved          bool
	Timestamp      time.Time
}

// OwnedBy reports whether userID owns the record. Anonymous records have no owner.
func (r *Record) OwnedBy(userID uint) bool {
	return r.UserID != nil && *r.UserID == userID
}

// Filter narrows a user's history listing.
type Filter struct {
	UserID    uint
	Kind      *Kind
	SavedOnly bool
}

// Pagination bounds a listing.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalize clamps the pagination window.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Repository persists history records.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, kind Kind, id uint) (*Record, error)
	UpdateSaved(ctx context.Context, kind Kind, id uint, saved bool) error
	List(ctx context.Context, filter Filter, page Pagination) ([]*Record, int64, error)
}

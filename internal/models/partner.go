// internal/models/partner.go
package models

import "time"

// PartnerKind distinguishes the up-sell verticals we link out to.
type PartnerKind string

const (
	PartnerStorage   PartnerKind = "storage"
	PartnerGuarantor PartnerKind = "guarantor"
)

// AffiliateClick is one logged redirect to a partner offer.
type AffiliateClick struct {
	ID        string      `json:"id" db:"id"`
	SessionID string      `json:"sessionId" db:"session_id"`
	Partner   string      `json:"partner" db:"partner"`
	Kind      PartnerKind `json:"kind" db:"kind"`
	TargetURL string      `json:"targetUrl" db:"target_url"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

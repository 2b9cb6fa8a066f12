package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
)

type DisputeResolution string

const (
	ResolutionRefundRenter  DisputeResolution = "refund_renter"
	ResolutionReleaseVendor DisputeResolution = "release_vendor"
)

func (r DisputeResolution) Valid() bool {
	return r == ResolutionRefundRenter || r == ResolutionReleaseVendor
}

type Dispute struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	EscrowID     string            `gorm:"index;not null" json:"escrowId"`
	RentalID     string            `gorm:"not null" json:"rentalId"`
	RaisedBy     uint              `gorm:"index;not null" json:"raisedBy"`
	Reason       string            `gorm:"not null" json:"reason"`
	EvidenceURLs pq.StringArray    `gorm:"type:text[]" json:"evidenceUrls"`
	Status       string            `gorm:"not null;default:'open'" json:"status"`
	Resolution   DisputeResolution `json:"resolution,omitempty"`
	ResolvedBy   *uint             `json:"resolvedBy,omitempty"`
	ResolvedAt   *time.Time        `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

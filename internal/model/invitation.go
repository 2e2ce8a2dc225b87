package model

import (
	"time"
)

type InvitationStatus string

const (
	InvitePending  InvitationStatus = "pending"
	InviteAccepted InvitationStatus = "accepted"
	InviteRevoked  InvitationStatus = "revoked"
	InviteExpired  InvitationStatus = "expired"
)

// swagger:model Invitation
type Invitation struct {
	UUIDBase
	OrganizationID uint             `gorm:"index;type:bigint unsigned" json:"organizationId"`
	CampaignID     string           `gorm:"index;type:varchar(36)" json:"campaignId"`
	Email          string           `gorm:"size:100;not null" json:"email"`
	Token          string           `gorm:"size:36;uniqueIndex;not null" json:"-"`
	Role           UserRole         `gorm:"size:20;default:'employee'" json:"role"`
	Status         InvitationStatus `gorm:"size:20;default:'pending'" json:"status"`
	InviterID      uint             `gorm:"type:bigint unsigned" json:"inviterId"`
	ExpiresAt      time.Time        `json:"expiresAt"`
	AcceptedAt     *time.Time       `json:"acceptedAt,omitempty"`
}

func (Invitation) TableName() string {
	return "invitations"
}

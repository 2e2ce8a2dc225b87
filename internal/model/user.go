package model

import (
	"time"
)

type UserRole string

const (
	Employee UserRole = "employee"
	Manager  UserRole = "manager"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:100;unique;not null" json:"email"`
	Password       string    `gorm:"size:100;not null" json:"-"`
	Role           UserRole  `gorm:"type:enum('employee','manager','admin');default:'employee'" json:"role"`
	OrganizationID uint      `gorm:"index;type:bigint unsigned" json:"organizationId"`
	Department     string    `gorm:"size:100" json:"department"`
	JobTitle       string    `gorm:"size:100" json:"jobTitle"`
	Language       string    `gorm:"size:10;default:'en'" json:"language"`
	Avatar         string    `gorm:"size:255" json:"avatar"`
	Disabled       bool      `gorm:"default:false" json:"disabled"`
	LastLogin      time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen       time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// swagger:model Organization
type Organization struct {
	BaseModel
	Name   string `gorm:"size:255;not null" json:"name"`
	Domain string `gorm:"size:100" json:"domain"`
	Logo   string `gorm:"size:255" json:"logo"`
}

func (Organization) TableName() string {
	return "organizations"
}

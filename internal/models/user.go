package models

import (
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleVendor  = "vendor"
	RoleAdmin   = "admin"
)

// User is a marketplace account together with the reputation fields the
// profile service maintains. Karma and trust level are computed elsewhere.
type User struct {
	gorm.Model
	Email             string            `gorm:"uniqueIndex;not null"`
	Password          string            `gorm:"not null"`
	Name              string            `gorm:"not null"`
	College           string
	Role              string            `gorm:"default:'student'"`
	Status            string            `gorm:"default:'active'"`
	TrustScore        int               `gorm:"default:500"`
	CompletedRentals  int               `gorm:"default:0"`
	VerificationLevel VerificationLevel `gorm:"type:varchar(8);default:'low'"`
	DamageHistory     int               `gorm:"default:0"`
	LateReturns       int               `gorm:"default:0"`
	TokenVersion      int               `gorm:"default:1"`
}

// RentalHistory projects the loyalty signal used by the fee calculator.
func (u *User) RentalHistory() RentalHistory {
	return RentalHistory{CompletedRentals: u.CompletedRentals}
}

// Profile projects the deposit inputs.
func (u *User) Profile() UserProfile {
	return UserProfile{
		TrustScore:        u.TrustScore,
		CompletedRentals:  u.CompletedRentals,
		VerificationLevel: u.VerificationLevel,
		DamageHistory:     u.DamageHistory,
		LateReturns:       u.LateReturns,
	}
}

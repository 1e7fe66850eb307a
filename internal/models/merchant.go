package models

import "time"

type Merchant struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	KYCVerified  bool      `gorm:"not null;default:false" json:"kyc_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Payments []Payment `gorm:"foreignKey:MerchantID" json:"-"`
}

package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin is the model for the 'admins' table.
// There is a single admin role; no hierarchy.
type Admin struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password"`
}

// Reseller is the model for the 'resellers' table.
// Balance is a running ledger total: delivered-order credits,
// approved-withdrawal debits and referral postings.
type Reseller struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password"`
	Balance      float64 `json:"balance" db:"balance"`

	// --- Affiliate Fields (Pointers = Clean JSON) ---
	ReferralCode *string `json:"referralCode,omitempty" db:"referral_code"`
	ReferredBy   *int64  `json:"referredBy,omitempty" db:"referred_by"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

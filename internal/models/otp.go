package models

import "time"

// OTPChallenge is the ephemeral record of an issued verification code. One
// challenge exists per email at most; a new issuance replaces any prior one.
type OTPChallenge struct {
	Email    string    `json:"email"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
	Attempts int       `json:"attempts"`
}

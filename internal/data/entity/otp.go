package entity

import (
	"time"
)

type Otp struct {
	BaseSimple
	PhoneNumber string     `db:"phone_number"`
	Code        string     `db:"code"`
	ExpiresAt   time.Time  `db:"expires_at"`
	VerifiedAt  *time.Time `db:"verified_at"`
	Used        bool       `db:"used"`
}

// IsExpired reports whether the code's validity window has passed.
// Checked independently of the used flag so an expired record can
// never come back as valid.
func (o *Otp) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

package models

import (
	"time"

	id "payoutkyc/pkg/domain"
)

// Profile is the stored payout profile of an account: the flags that steer
// the form plus the selected payout method.
type Profile struct {
	UserID       id.UserID    `json:"user_id"`
	User         User         `json:"user"`
	PayoutMethod PayoutMethod `json:"payout_method"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// MarkTaxIDEntered records that a tax ID value has been stored for f.
func (p *Profile) MarkTaxIDEntered(f FieldName) {
	switch f {
	case FieldIndividualTaxID:
		p.User.IndividualTaxIDEntered = true
	case FieldBusinessTaxID:
		p.User.BusinessTaxIDEntered = true
	}
}

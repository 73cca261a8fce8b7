package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Default partner names used before onboarding stores real ones
const (
	DefaultPartner1 = "Partner 1"
	DefaultPartner2 = "Partner 2"
)

// CoupleNames is the persisted pair of partner names
type CoupleNames struct {
	Partner1 string `json:"partner1"`
	Partner2 string `json:"partner2"`
}

// Validate checks both names are present and distinct
func (c CoupleNames) Validate() error {
	p1 := strings.TrimSpace(c.Partner1)
	p2 := strings.TrimSpace(c.Partner2)
	if p1 == "" || p2 == "" {
		return goerr.Wrap(ErrInvalidCouple, "both partner names are required")
	}
	if p1 == p2 {
		return goerr.Wrap(ErrInvalidCouple, "partner names must differ", goerr.V("name", p1))
	}
	return nil
}

// Couple is the paired users of the app and the one currently capturing notes
type Couple struct {
	Partner1    string `json:"partner1"`
	Partner2    string `json:"partner2"`
	CurrentUser string `json:"currentUser"`
}

// Other returns the partner that is not the current user
func (c Couple) Other() string {
	if c.CurrentUser == c.Partner1 {
		return c.Partner2
	}
	return c.Partner1
}

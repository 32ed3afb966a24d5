// Package entities holds the catalog records served by the API: insurance
// companies, medicines, health plans and the admin-defined filter definitions
// whose keys index a plan's attribute map.
package entities

import (
	"slices"
	"time"
)

type Company struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name" validate:"required,max=200"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	Active         bool      `json:"active" yaml:"active"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	Address        string    `json:"address,omitempty" yaml:"address,omitempty"`
	ContactEmail   string    `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone   string    `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	PaymentMethods string    `json:"paymentMethods,omitempty" yaml:"paymentMethods,omitempty"`
	Countries      []string  `json:"countries,omitempty" yaml:"countries,omitempty" validate:"dive,len=2"`
}

func (c Company) Clone() Company {
	c.Countries = slices.Clone(c.Countries)
	return c
}

package entities

import "slices"

type Medicine struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name" validate:"required,max=200"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category     string   `json:"category,omitempty" yaml:"category,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Price        *float64 `json:"price,omitempty" yaml:"price,omitempty" validate:"omitempty,gte=0"`
	CompanyIDs   []string `json:"companyIds,omitempty" yaml:"companyIds,omitempty"`
}

func (m Medicine) Clone() Medicine {
	m.CompanyIDs = slices.Clone(m.CompanyIDs)
	if m.Price != nil {
		p := *m.Price
		m.Price = &p
	}
	return m
}

// AvailableFrom reports whether the medicine lists companyID among its suppliers
func (m Medicine) AvailableFrom(companyID string) bool {
	return slices.Contains(m.CompanyIDs, companyID)
}

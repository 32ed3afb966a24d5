package entities

// Catalog is a point-in-time copy of every collection in the store.
type Catalog struct {
	Companies []Company          `json:"companies" yaml:"companies"`
	Medicines []Medicine         `json:"medicines" yaml:"medicines"`
	Filters   []FilterDefinition `json:"filters" yaml:"filters"`
	Plans     []HealthPlan       `json:"plans" yaml:"plans"`
	Users     []User             `json:"users,omitempty" yaml:"users,omitempty"`
}

// Clone deep-copies every collection
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Companies: make([]Company, len(c.Companies)),
		Medicines: make([]Medicine, len(c.Medicines)),
		Filters:   make([]FilterDefinition, len(c.Filters)),
		Plans:     make([]HealthPlan, len(c.Plans)),
		Users:     append([]User(nil), c.Users...),
	}
	for i := range c.Companies {
		out.Companies[i] = c.Companies[i].Clone()
	}
	for i := range c.Medicines {
		out.Medicines[i] = c.Medicines[i].Clone()
	}
	for i := range c.Filters {
		out.Filters[i] = c.Filters[i].Clone()
	}
	for i := range c.Plans {
		out.Plans[i] = c.Plans[i].Clone()
	}
	return out
}

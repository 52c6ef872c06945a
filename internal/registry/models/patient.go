package models

import "time"

// Gender as reported by the registry.
type Gender string

const (
	GenderFemale       Gender = "Female"
	GenderMale         Gender = "Male"
	GenderNotSpecified Gender = "NotSpecified"
)

// GenderFromCode maps an administrative gender code.
func GenderFromCode(code string) Gender {
	switch code {
	case "F":
		return GenderFemale
	case "M":
		return GenderMale
	default:
		return GenderNotSpecified
	}
}

// Name is an assembled given name and surname.
type Name struct {
	GivenName string `json:"givenName"`
	Surname   string `json:"surname"`
}

// Address is a resolved postal or physical address.
type Address struct {
	StreetLines []string `json:"streetLines"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	PostalCode  string   `json:"postalCode"`
	Country     string   `json:"country"`
}

// PatientRecord is the demographics of a living, named registry subject.
//
// Invariants:
//   - FirstName and LastName are non-empty
//   - PHN and HDID are both set unless the lookup allowed unvalidated identifiers
type PatientRecord struct {
	HDID            string    `json:"hdid,omitempty"`
	PHN             string    `json:"personalHealthNumber,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	CommonName      *Name     `json:"commonName,omitempty"`
	LegalName       *Name     `json:"legalName,omitempty"`
	BirthDate       time.Time `json:"birthdate"`
	Gender          Gender    `json:"gender"`
	PhysicalAddress *Address  `json:"physicalAddress,omitempty"`
	PostalAddress   *Address  `json:"postalAddress,omitempty"`
	// ResponseCode carries the registry status when it signalled a non-fatal
	// advisory, so consumers can show a caution banner.
	ResponseCode string `json:"responseCode,omitempty"`
}

// HasAdvisory reports whether the registry attached an advisory to the record.
func (p PatientRecord) HasAdvisory() bool {
	return p.ResponseCode != ""
}

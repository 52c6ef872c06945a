// Package fixtures holds canned registry replies. The mock registry serves
// them and tests build on them.
package fixtures

import (
	"demographics/internal/registry/classifier"
	"demographics/internal/registry/hl7"
)

// Identifiers of the canned subjects.
const (
	JohnDoeHdid = "EXTRIOYFPNX35TWEBUAJ3DNFDFXSYTBC6J4M76GYE3HC5ER2NKWQ"
	JohnDoePhn  = "0009735353315"

	DeceasedHdid = "DECEASEDP4TKJ2NUQXS6V3HZWRD7CMGAE5BYLF"
	DeceasedPhn  = "0009735353322"

	AdvisoryHdid = "ADVISORYQ5RM3HWKD7XNZE2VJCYT6PGBLAS4F"
	AdvisoryPhn  = "0009735353339"

	InvalidPhn = "1234"
)

// AdvisoryResponseCode is the status returned for the advisory subject.
const AdvisoryResponseCode = classifier.CodeRecordFound + "|BCHCIM.GD.0.0015"

// PersonBuilder assembles an hl7.Person for canned replies and tests.
type PersonBuilder struct {
	person hl7.Person
}

// NewPerson starts a living subject with no names, identifiers or addresses.
func NewPerson() *PersonBuilder {
	return &PersonBuilder{person: hl7.Person{BirthDate: "19800101", GenderCode: "M"}}
}

// WithName appends a name section with the given uses. Given and family
// texts are added as parts in that order.
func (b *PersonBuilder) WithName(uses []hl7.NameUse, given []string, family []string) *PersonBuilder {
	section := hl7.NameSection{Uses: uses}
	for _, g := range given {
		section.Parts = append(section.Parts, hl7.NamePart{Kind: hl7.NamePartGiven, Text: g})
	}
	for _, f := range family {
		section.Parts = append(section.Parts, hl7.NamePart{Kind: hl7.NamePartFamily, Text: f})
	}
	b.person.Names = append(b.person.Names, section)
	return b
}

// WithNameSection appends a prebuilt name section.
func (b *PersonBuilder) WithNameSection(section hl7.NameSection) *PersonBuilder {
	b.person.Names = append(b.person.Names, section)
	return b
}

// WithPhn adds a PHN-scheme identifier.
func (b *PersonBuilder) WithPhn(phn string) *PersonBuilder {
	b.person.Identifiers = append(b.person.Identifiers, hl7.InstanceIdentifier{Root: hl7.OIDPhn, Extension: phn, Displayable: true})
	return b
}

// WithHdid adds an HDID-scheme identifier.
func (b *PersonBuilder) WithHdid(hdid string, displayable bool) *PersonBuilder {
	b.person.Identifiers = append(b.person.Identifiers, hl7.InstanceIdentifier{Root: hl7.OIDHdid, Extension: hdid, Displayable: displayable})
	return b
}

// WithAddress appends an address.
func (b *PersonBuilder) WithAddress(address hl7.Address) *PersonBuilder {
	b.person.Addresses = append(b.person.Addresses, address)
	return b
}

// WithBirthDate sets the yyyyMMdd birth date.
func (b *PersonBuilder) WithBirthDate(date string) *PersonBuilder {
	b.person.BirthDate = date
	return b
}

// WithGender sets the administrative gender code.
func (b *PersonBuilder) WithGender(code string) *PersonBuilder {
	b.person.GenderCode = code
	return b
}

// Deceased marks the subject deceased.
func (b *PersonBuilder) Deceased() *PersonBuilder {
	b.person.DeceasedIndicator = true
	return b
}

// Build returns a copy of the assembled person.
func (b *PersonBuilder) Build() *hl7.Person {
	p := b.person
	return &p
}

// Address builds an address with the given uses and parts.
func Address(uses []hl7.AddressUse, parts ...hl7.AddressPart) hl7.Address {
	return hl7.Address{Uses: uses, Parts: parts}
}

// Part builds a typed address part.
func Part(kind hl7.AddressPartKind, values ...string) hl7.AddressPart {
	return hl7.AddressPart{Kind: kind, Values: values}
}

// Found wraps person in a record-found reply.
func Found(person *hl7.Person) *hl7.ProtocolResponse {
	return &hl7.ProtocolResponse{ResponseCode: classifier.CodeRecordFound, Person: person}
}

// JohnDoe is the default mock subject.
func JohnDoe() *hl7.Person {
	return NewPerson().
		WithName([]hl7.NameUse{hl7.NameUseDocumented}, []string{"John"}, []string{"Doe"}).
		WithName([]hl7.NameUse{hl7.NameUseLegal}, []string{"Johnathan"}, []string{"Doe"}).
		WithPhn(JohnDoePhn).
		WithHdid(JohnDoeHdid, true).
		WithBirthDate("19670602").
		WithGender("M").
		WithAddress(Address([]hl7.AddressUse{hl7.AddressUsePhysical},
			Part(hl7.AddressPartStreetLine, "1025 Sutlej Street"),
			Part(hl7.AddressPartStreetLine, "Suite 310"),
			Part(hl7.AddressPartCity, "Victoria"),
			Part(hl7.AddressPartState, "BC"),
			Part(hl7.AddressPartPostalCode, "V8V2V8"),
			Part(hl7.AddressPartCountry, "CA"),
		)).
		WithAddress(Address([]hl7.AddressUse{hl7.AddressUsePostal},
			Part(hl7.AddressPartStreetLine, "PO Box 9999"),
			Part(hl7.AddressPartCity, "Victoria"),
			Part(hl7.AddressPartState, "BC"),
			Part(hl7.AddressPartPostalCode, "V8W9V1"),
			Part(hl7.AddressPartCountry, "CA"),
		)).
		Build()
}

// DeceasedPerson is a subject the registry records as deceased.
func DeceasedPerson() *hl7.Person {
	return NewPerson().
		WithName([]hl7.NameUse{hl7.NameUseDocumented, hl7.NameUseLegal}, []string{"Jane"}, []string{"Roe"}).
		WithPhn(DeceasedPhn).
		WithHdid(DeceasedHdid, true).
		WithGender("F").
		Deceased().
		Build()
}

// AdvisoryPerson is a valid subject returned with a caution status.
func AdvisoryPerson() *hl7.Person {
	return NewPerson().
		WithName([]hl7.NameUse{hl7.NameUseLegal}, []string{"Mary", "Ann"}, []string{"Smith"}).
		WithPhn(AdvisoryPhn).
		WithHdid(AdvisoryHdid, true).
		WithBirthDate("19900315").
		WithGender("F").
		Build()
}

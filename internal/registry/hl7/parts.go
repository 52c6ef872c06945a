package hl7

import "slices"

// NameUse tags a name section. The registry may send several per section.
type NameUse string

const (
	NameUseDocumented NameUse = "C"
	NameUseLegal      NameUse = "L"
)

// NamePartKind is the element a name part was carried in.
type NamePartKind string

const (
	NamePartGiven  NamePartKind = "given"
	NamePartFamily NamePartKind = "family"
	NamePartPrefix NamePartKind = "prefix"
	NamePartSuffix NamePartKind = "suffix"
)

// QualifierAlias marks a name part that is an alias rather than part of the
// person's name.
const QualifierAlias = "CL"

// NameSection is one PN element: its uses and its parts in document order.
type NameSection struct {
	Uses  []NameUse
	Parts []NamePart
}

// HasUse reports whether the section is tagged with use.
func (n NameSection) HasUse(use NameUse) bool {
	return slices.Contains(n.Uses, use)
}

// NamePart is a single given/family/prefix/suffix entry.
type NamePart struct {
	Kind       NamePartKind
	Text       string
	Qualifiers []string
}

// HasQualifier reports whether the part carries qualifier q.
func (p NamePart) HasQualifier(q string) bool {
	return slices.Contains(p.Qualifiers, q)
}

// AddressUse tags an address.
type AddressUse string

const (
	AddressUsePhysical AddressUse = "PHYS"
	AddressUsePostal   AddressUse = "PST"
)

// AddressPartKind is the element an address part was carried in.
type AddressPartKind string

const (
	AddressPartStreetLine AddressPartKind = "streetAddressLine"
	AddressPartCity       AddressPartKind = "city"
	AddressPartState      AddressPartKind = "state"
	AddressPartPostalCode AddressPartKind = "postalCode"
	AddressPartCountry    AddressPartKind = "country"
)

// Address is one AD element: its uses and an unordered bag of typed parts.
type Address struct {
	Uses  []AddressUse
	Parts []AddressPart
}

// HasUse reports whether the address is tagged with use.
func (a Address) HasUse(use AddressUse) bool {
	return slices.Contains(a.Uses, use)
}

// AddressPart is a typed address item. Values holds every text run found in
// the item, in order.
type AddressPart struct {
	Kind   AddressPartKind
	Values []string
}

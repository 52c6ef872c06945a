package models

import "demographics/internal/registry/hl7"

// OidType identifies which registry identifier a lookup is keyed by.
type OidType string

const (
	OidTypeHdid OidType = "HDID"
	OidTypePhn  OidType = "PHN"
)

// Root returns the registry OID for the identifier type.
func (t OidType) Root() string {
	switch t {
	case OidTypeHdid:
		return hl7.OIDHdid
	case OidTypePhn:
		return hl7.OIDPhn
	default:
		return ""
	}
}

// IsValid reports whether t is a known identifier type.
func (t OidType) IsValid() bool {
	return t == OidTypeHdid || t == OidTypePhn
}

// UnknownClientIP is sent to the registry when the caller's address is not known.
const UnknownClientIP = "Unknown"

// IdentifierQuery is the immutable input to a lookup.
type IdentifierQuery struct {
	Kind     OidType
	Value    string
	ClientIP string
	// AllowUnvalidatedIdentifiers accepts a subject that is missing its PHN or HDID.
	AllowUnvalidatedIdentifiers bool
}

// Package hl7 holds the typed HCIM_IN_GetDemographics request and reply values
// exchanged with the client registry. The values carry no behaviour beyond
// small lookups; turning them into bytes is the transport's job.
package hl7

// Object identifiers used by the client registry.
const (
	OIDMessageID      = "2.16.840.1.113883.3.51.1.1.1"
	OIDInteractionID  = "2.16.840.1.113883.3.51.1.1.2"
	OIDOrganization   = "2.16.840.1.113883.3.51.1.1.3"
	OIDReceiverDevice = "2.16.840.1.113883.3.51.1.1.4"
	OIDSenderDevice   = "2.16.840.1.113883.3.51.1.1.5"
	OIDHdid           = "2.16.840.1.113883.3.51.1.1.6"
	OIDPhn            = "2.16.840.1.113883.3.51.1.1.6.1"
	OIDDataEnterer    = "2.16.840.1.113883.3.51.1.1.7"
)

// InteractionGetDemographics names the only interaction this client speaks.
const InteractionGetDemographics = "HCIM_IN_GetDemographics"

// InstanceIdentifier is an HL7 II: an OID root plus an extension value.
type InstanceIdentifier struct {
	Root                   string
	Extension              string
	AssigningAuthorityName string
	Displayable            bool
}

// Device addresses one end of the exchange: the device itself and the
// organization it acts for.
type Device struct {
	ID           InstanceIdentifier
	Organization InstanceIdentifier
}

// ProtocolRequest is a single HCIM_IN_GetDemographics query. Built once per
// lookup and never reused.
type ProtocolRequest struct {
	ID                 InstanceIdentifier
	CreationTime       string // yyyyMMddHHmmss
	VersionCode        string
	InteractionID      InstanceIdentifier
	ProcessingCode     string
	ProcessingModeCode string
	AcceptAckCode      string
	Sender             Device
	Receiver           Device
	EffectiveTime      string // yyyyMMddHHmmss
	DataEnterer        InstanceIdentifier
	PersonID           InstanceIdentifier
}

// ProtocolResponse is the decoded registry reply. Person is nil when the
// registry did not return a subject.
type ProtocolResponse struct {
	ResponseCode string
	Person       *Person
}

// Person is the identified subject of a reply.
type Person struct {
	DeceasedIndicator bool
	Names             []NameSection
	Identifiers       []InstanceIdentifier
	Addresses         []Address
	BirthDate         string // yyyyMMdd
	GenderCode        string
}

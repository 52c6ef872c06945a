package soap

import "encoding/xml"

// Namespaces used on the wire.
const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	HL7Namespace      = "urn:hl7-org:v3"
)

// requestEnvelope wraps a GetDemographics query.
type requestEnvelope struct {
	XMLName xml.Name    `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    requestBody `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type requestBody struct {
	Query *getDemographics `xml:"urn:hl7-org:v3 HCIM_IN_GetDemographics"`
}

// responseEnvelope wraps a GetDemographics reply or a fault.
type responseEnvelope struct {
	XMLName xml.Name     `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    responseBody `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type responseBody struct {
	Fault    *Fault                   `xml:"http://schemas.xmlsoap.org/soap/envelope/ Fault,omitempty"`
	Response *getDemographicsResponse `xml:"urn:hl7-org:v3 HCIM_IN_GetDemographicsResponse,omitempty"`
}

// Fault is a SOAP 1.1 fault.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// InstanceID is an HL7 II element.
type InstanceID struct {
	Root                   string `xml:"root,attr"`
	Extension              string `xml:"extension,attr,omitempty"`
	AssigningAuthorityName string `xml:"assigningAuthorityName,attr,omitempty"`
	Displayable            bool   `xml:"displayable,attr,omitempty"`
}

// Code is a coded value.
type Code struct {
	Code string `xml:"code,attr"`
}

// TimeValue holds a time stamp in HL7 format (YYYYMMDD or YYYYMMDDHHmmss).
type TimeValue struct {
	Value string `xml:"value,attr,omitempty"`
}

// BoolValue holds an HL7 BL.
type BoolValue struct {
	Value bool `xml:"value,attr"`
}

type getDemographics struct {
	ID                 InstanceID      `xml:"id"`
	CreationTime       TimeValue       `xml:"creationTime"`
	VersionCode        Code            `xml:"versionCode"`
	InteractionID      InstanceID      `xml:"interactionId"`
	ProcessingCode     Code            `xml:"processingCode"`
	ProcessingModeCode Code            `xml:"processingModeCode"`
	AcceptAckCode      Code            `xml:"acceptAckCode"`
	Receiver           participant     `xml:"receiver"`
	Sender             participant     `xml:"sender"`
	ControlActProcess  queryControlAct `xml:"controlActProcess"`
}

type participant struct {
	TypeCode string `xml:"typeCode,attr"`
	Device   device `xml:"device"`
}

type device struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             InstanceID `xml:"id"`
	AsAgent        agent      `xml:"asAgent"`
}

type agent struct {
	ClassCode               string       `xml:"classCode,attr"`
	RepresentedOrganization organization `xml:"representedOrganization"`
}

type organization struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             InstanceID `xml:"id"`
}

type queryControlAct struct {
	ClassCode        string           `xml:"classCode,attr"`
	MoodCode         string           `xml:"moodCode,attr"`
	EffectiveTime    TimeValue        `xml:"effectiveTime"`
	DataEnterer      dataEnterer      `xml:"dataEnterer"`
	QueryByParameter queryByParameter `xml:"queryByParameter"`
}

type dataEnterer struct {
	TypeCode       string         `xml:"typeCode,attr"`
	AssignedPerson assignedPerson `xml:"assignedPerson"`
}

type assignedPerson struct {
	ClassCode string     `xml:"classCode,attr"`
	ID        InstanceID `xml:"id"`
}

type queryByParameter struct {
	Payload queryPayload `xml:"queryByParameterPayload"`
}

type queryPayload struct {
	PersonID personID `xml:"person.id"`
}

type personID struct {
	Value InstanceID `xml:"value"`
}

type getDemographicsResponse struct {
	ControlActProcess responseControlAct `xml:"controlActProcess"`
}

type responseControlAct struct {
	QueryAck queryAck  `xml:"queryAck"`
	Subjects []subject `xml:"subject"`
}

type queryAck struct {
	QueryResponseCode Code `xml:"queryResponseCode"`
}

type subject struct {
	Target target `xml:"target"`
}

// target is the registry's view of the subject: its HDIDs and addresses
// live here, while names and PHNs live on the identified person.
type target struct {
	IDs              []InstanceID     `xml:"id"`
	IdentifiedPerson identifiedPerson `xml:"identifiedPerson"`
	Addresses        []address        `xml:"addr"`
}

type identifiedPerson struct {
	IDs                      []InstanceID `xml:"id"`
	Names                    []personName `xml:"name"`
	AdministrativeGenderCode *Code        `xml:"administrativeGenderCode,omitempty"`
	BirthTime                *TimeValue   `xml:"birthTime,omitempty"`
	DeceasedInd              *BoolValue   `xml:"deceasedInd,omitempty"`
}

// personName is a PN. Parts keep document order.
type personName struct {
	Use   string     `xml:"use,attr,omitempty"`
	Parts []namePart `xml:",any"`
}

type namePart struct {
	XMLName   xml.Name
	Qualifier string `xml:"qualifier,attr,omitempty"`
	Text      string `xml:",chardata"`
}

// address is an AD. Parts keep document order.
type address struct {
	Use   string        `xml:"use,attr,omitempty"`
	Parts []addressPart `xml:",any"`
}

type addressPart struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

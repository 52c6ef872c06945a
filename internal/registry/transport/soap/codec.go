// Package soap carries HCIM_IN_GetDemographics exchanges over SOAP 1.1.
package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"demographics/internal/registry/hl7"
)

// ErrMissingBody is returned when an envelope carries neither the expected
// payload nor a fault.
var ErrMissingBody = errors.New("soap envelope has no payload")

// FaultError is a decoded SOAP fault.
type FaultError struct {
	Fault Fault
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("soap fault %s: %s", e.Fault.Code, e.Fault.String)
}

// EncodeRequest renders req as a SOAP envelope.
func EncodeRequest(req hl7.ProtocolRequest) ([]byte, error) {
	env := requestEnvelope{Body: requestBody{Query: toQuery(req)}}
	return marshal(env)
}

// DecodeRequest parses a SOAP envelope carrying a GetDemographics query.
func DecodeRequest(data []byte) (hl7.ProtocolRequest, error) {
	var env requestEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return hl7.ProtocolRequest{}, fmt.Errorf("decode request envelope: %w", err)
	}
	if env.Body.Query == nil {
		return hl7.ProtocolRequest{}, ErrMissingBody
	}
	return fromQuery(env.Body.Query), nil
}

// EncodeResponse renders resp as a SOAP envelope.
func EncodeResponse(resp hl7.ProtocolResponse) ([]byte, error) {
	env := responseEnvelope{Body: responseBody{Response: toResponse(resp)}}
	return marshal(env)
}

// EncodeFault renders a SOAP fault envelope.
func EncodeFault(code, message string) ([]byte, error) {
	env := responseEnvelope{Body: responseBody{Fault: &Fault{Code: code, String: message}}}
	return marshal(env)
}

// DecodeResponse parses a SOAP envelope carrying a GetDemographics reply. A
// fault is returned as *FaultError.
func DecodeResponse(data []byte) (*hl7.ProtocolResponse, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if env.Body.Fault != nil {
		return nil, &FaultError{Fault: *env.Body.Fault}
	}
	if env.Body.Response == nil {
		return nil, ErrMissingBody
	}
	return fromResponse(env.Body.Response), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return buf.Bytes(), nil
}

func toID(id hl7.InstanceIdentifier) InstanceID {
	return InstanceID{
		Root:                   id.Root,
		Extension:              id.Extension,
		AssigningAuthorityName: id.AssigningAuthorityName,
		Displayable:            id.Displayable,
	}
}

func fromID(id InstanceID) hl7.InstanceIdentifier {
	return hl7.InstanceIdentifier{
		Root:                   id.Root,
		Extension:              id.Extension,
		AssigningAuthorityName: id.AssigningAuthorityName,
		Displayable:            id.Displayable,
	}
}

func toParticipant(typeCode string, d hl7.Device) participant {
	return participant{
		TypeCode: typeCode,
		Device: device{
			ClassCode:      "DEV",
			DeterminerCode: "INSTANCE",
			ID:             toID(d.ID),
			AsAgent: agent{
				ClassCode: "AGNT",
				RepresentedOrganization: organization{
					ClassCode:      "ORG",
					DeterminerCode: "INSTANCE",
					ID:             toID(d.Organization),
				},
			},
		},
	}
}

func fromParticipant(p participant) hl7.Device {
	return hl7.Device{
		ID:           fromID(p.Device.ID),
		Organization: fromID(p.Device.AsAgent.RepresentedOrganization.ID),
	}
}

func toQuery(req hl7.ProtocolRequest) *getDemographics {
	return &getDemographics{
		ID:                 toID(req.ID),
		CreationTime:       TimeValue{Value: req.CreationTime},
		VersionCode:        Code{Code: req.VersionCode},
		InteractionID:      toID(req.InteractionID),
		ProcessingCode:     Code{Code: req.ProcessingCode},
		ProcessingModeCode: Code{Code: req.ProcessingModeCode},
		AcceptAckCode:      Code{Code: req.AcceptAckCode},
		Receiver:           toParticipant("RCV", req.Receiver),
		Sender:             toParticipant("SND", req.Sender),
		ControlActProcess: queryControlAct{
			ClassCode:     "ACCM",
			MoodCode:      "EVN",
			EffectiveTime: TimeValue{Value: req.EffectiveTime},
			DataEnterer: dataEnterer{
				TypeCode:       "CST",
				AssignedPerson: assignedPerson{ClassCode: "ENT", ID: toID(req.DataEnterer)},
			},
			QueryByParameter: queryByParameter{
				Payload: queryPayload{PersonID: personID{Value: toID(req.PersonID)}},
			},
		},
	}
}

func fromQuery(q *getDemographics) hl7.ProtocolRequest {
	return hl7.ProtocolRequest{
		ID:                 fromID(q.ID),
		CreationTime:       q.CreationTime.Value,
		VersionCode:        q.VersionCode.Code,
		InteractionID:      fromID(q.InteractionID),
		ProcessingCode:     q.ProcessingCode.Code,
		ProcessingModeCode: q.ProcessingModeCode.Code,
		AcceptAckCode:      q.AcceptAckCode.Code,
		Receiver:           fromParticipant(q.Receiver),
		Sender:             fromParticipant(q.Sender),
		EffectiveTime:      q.ControlActProcess.EffectiveTime.Value,
		DataEnterer:        fromID(q.ControlActProcess.DataEnterer.AssignedPerson.ID),
		PersonID:           fromID(q.ControlActProcess.QueryByParameter.Payload.PersonID.Value),
	}
}

func toResponse(resp hl7.ProtocolResponse) *getDemographicsResponse {
	out := &getDemographicsResponse{
		ControlActProcess: responseControlAct{
			QueryAck: queryAck{QueryResponseCode: Code{Code: resp.ResponseCode}},
		},
	}
	if resp.Person != nil {
		out.ControlActProcess.Subjects = []subject{{Target: toTarget(resp.Person)}}
	}
	return out
}

// toTarget places HDIDs on the target and every other identifier on the
// identified person.
func toTarget(p *hl7.Person) target {
	t := target{
		IdentifiedPerson: identifiedPerson{
			AdministrativeGenderCode: &Code{Code: p.GenderCode},
			BirthTime:                &TimeValue{Value: p.BirthDate},
			DeceasedInd:              &BoolValue{Value: p.DeceasedIndicator},
		},
	}
	for _, id := range p.Identifiers {
		if id.Root == hl7.OIDHdid {
			t.IDs = append(t.IDs, toID(id))
		} else {
			t.IdentifiedPerson.IDs = append(t.IdentifiedPerson.IDs, toID(id))
		}
	}
	for _, n := range p.Names {
		t.IdentifiedPerson.Names = append(t.IdentifiedPerson.Names, toPersonName(n))
	}
	for _, a := range p.Addresses {
		t.Addresses = append(t.Addresses, toAddress(a))
	}
	return t
}

func fromResponse(r *getDemographicsResponse) *hl7.ProtocolResponse {
	out := &hl7.ProtocolResponse{
		ResponseCode: strings.TrimSpace(r.ControlActProcess.QueryAck.QueryResponseCode.Code),
	}
	if len(r.ControlActProcess.Subjects) == 0 {
		return out
	}

	t := r.ControlActProcess.Subjects[0].Target
	ip := t.IdentifiedPerson
	person := &hl7.Person{}
	if ip.DeceasedInd != nil {
		person.DeceasedIndicator = ip.DeceasedInd.Value
	}
	if ip.BirthTime != nil {
		person.BirthDate = ip.BirthTime.Value
	}
	if ip.AdministrativeGenderCode != nil {
		person.GenderCode = ip.AdministrativeGenderCode.Code
	}
	for _, id := range ip.IDs {
		person.Identifiers = append(person.Identifiers, fromID(id))
	}
	for _, id := range t.IDs {
		person.Identifiers = append(person.Identifiers, fromID(id))
	}
	for _, n := range ip.Names {
		person.Names = append(person.Names, fromPersonName(n))
	}
	for _, a := range t.Addresses {
		person.Addresses = append(person.Addresses, fromAddress(a))
	}
	out.Person = person
	return out
}

func toPersonName(n hl7.NameSection) personName {
	uses := make([]string, len(n.Uses))
	for i, u := range n.Uses {
		uses[i] = string(u)
	}
	out := personName{Use: strings.Join(uses, " ")}
	for _, part := range n.Parts {
		out.Parts = append(out.Parts, namePart{
			XMLName:   xml.Name{Local: string(part.Kind)},
			Qualifier: strings.Join(part.Qualifiers, " "),
			Text:      part.Text,
		})
	}
	return out
}

func fromPersonName(n personName) hl7.NameSection {
	out := hl7.NameSection{}
	for _, u := range strings.Fields(n.Use) {
		out.Uses = append(out.Uses, hl7.NameUse(u))
	}
	for _, part := range n.Parts {
		out.Parts = append(out.Parts, hl7.NamePart{
			Kind:       hl7.NamePartKind(part.XMLName.Local),
			Text:       strings.TrimSpace(part.Text),
			Qualifiers: strings.Fields(part.Qualifier),
		})
	}
	return out
}

// toAddress writes one element per part value, so a part with several
// values comes back as several single-value parts of the same kind.
func toAddress(a hl7.Address) address {
	uses := make([]string, len(a.Uses))
	for i, u := range a.Uses {
		uses[i] = string(u)
	}
	out := address{Use: strings.Join(uses, " ")}
	for _, part := range a.Parts {
		name := xml.Name{Local: string(part.Kind)}
		if len(part.Values) == 0 {
			out.Parts = append(out.Parts, addressPart{XMLName: name})
			continue
		}
		for _, v := range part.Values {
			out.Parts = append(out.Parts, addressPart{XMLName: name, Text: v})
		}
	}
	return out
}

func fromAddress(a address) hl7.Address {
	out := hl7.Address{}
	for _, u := range strings.Fields(a.Use) {
		out.Uses = append(out.Uses, hl7.AddressUse(u))
	}
	for _, part := range a.Parts {
		p := hl7.AddressPart{Kind: hl7.AddressPartKind(part.XMLName.Local)}
		if text := strings.TrimSpace(part.Text); text != "" {
			p.Values = []string{text}
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}

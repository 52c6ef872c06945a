package models

import (
	"fmt"

	"demographics/pkg/platform/sentinel"
)

// OutcomeKind discriminates the variants of Outcome.
type OutcomeKind string

const (
	OutcomeSuccess                 OutcomeKind = "success"
	OutcomeNotFound                OutcomeKind = "not_found"
	OutcomeInvalidIdentifierFormat OutcomeKind = "invalid_identifier_format"
	OutcomeIdentityIncomplete      OutcomeKind = "identity_incomplete"
	OutcomeDeceasedSubject         OutcomeKind = "deceased_subject"
	OutcomeTransportFailure        OutcomeKind = "transport_failure"
	OutcomeUnexpectedRegistryState OutcomeKind = "unexpected_registry_state"
)

// IncompleteReason says why a returned subject could not be used.
type IncompleteReason string

const (
	ReasonNoName            IncompleteReason = "no name"
	ReasonMissingIdentifier IncompleteReason = "missing identifier"
	ReasonInvalidBirthDate  IncompleteReason = "invalid birth date"
)

// Outcome is the result of a lookup. Exactly one variant is populated:
// Patient for success, Reason for an incomplete identity, Detail for
// transport failures and unexpected registry states.
type Outcome struct {
	Kind    OutcomeKind      `json:"kind"`
	Patient *PatientRecord   `json:"patient,omitempty"`
	Reason  IncompleteReason `json:"reason,omitempty"`
	Detail  string           `json:"detail,omitempty"`
}

func Success(patient PatientRecord) Outcome {
	return Outcome{Kind: OutcomeSuccess, Patient: &patient}
}

func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

func InvalidIdentifierFormat() Outcome {
	return Outcome{Kind: OutcomeInvalidIdentifierFormat}
}

func IdentityIncomplete(reason IncompleteReason) Outcome {
	return Outcome{Kind: OutcomeIdentityIncomplete, Reason: reason}
}

func DeceasedSubject() Outcome {
	return Outcome{Kind: OutcomeDeceasedSubject}
}

func TransportFailure(detail string) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Detail: detail}
}

func UnexpectedRegistryState(detail string) Outcome {
	return Outcome{Kind: OutcomeUnexpectedRegistryState, Detail: detail}
}

// IsSuccess reports whether the outcome carries a patient record.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess && o.Patient != nil
}

// Err maps a non-success outcome onto a wrapped sentinel error. Success
// returns nil.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeNotFound:
		return fmt.Errorf("client registry records not found: %w", sentinel.ErrNotFound)
	case OutcomeInvalidIdentifierFormat:
		return fmt.Errorf("personal health number is invalid: %w", sentinel.ErrInvalidIdentifier)
	case OutcomeIdentityIncomplete:
		return fmt.Errorf("%s: %w", o.Reason, sentinel.ErrIncomplete)
	case OutcomeDeceasedSubject:
		return fmt.Errorf("client registry returned a deceased person: %w", sentinel.ErrDeceased)
	case OutcomeTransportFailure:
		return fmt.Errorf("client registry communication failed: %s: %w", o.Detail, sentinel.ErrUnavailable)
	default:
		return fmt.Errorf("client registry did not return a person: %s: %w", o.Detail, sentinel.ErrInvalidState)
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeIdentityIncomplete:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Reason)
	case OutcomeTransportFailure, OutcomeUnexpectedRegistryState:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Detail)
	default:
		return string(o.Kind)
	}
}

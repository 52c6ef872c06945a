// Package extract turns the subject of a classified registry reply into a
// PatientRecord, enforcing the identity gates that decide whether the
// subject is usable.
package extract

import (
	"io"
	"log/slog"
	"time"

	"demographics/internal/registry/classifier"
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
)

const birthDateLayout = "20060102"

// Extractor applies the identity gates. Safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for gate warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the outcome for a reply that classified as Continue or
// ContinueWithAdvisory. Gates run in order and the first failing gate
// decides the outcome:
//  1. subject present
//  2. not deceased
//  3. documented or legal name with non-empty given and family parts
//  4. PHN and displayable HDID, unless allowUnvalidated
//  5. parseable birth date
func (e *Extractor) Extract(resp *hl7.ProtocolResponse, result classifier.Result, allowUnvalidated bool) models.Outcome {
	if !result.ShouldExtract() {
		return models.UnexpectedRegistryState("reply classified as " + string(result.Kind))
	}
	if resp == nil || resp.Person == nil {
		e.logger.Warn("client registry response has no subject")
		return models.UnexpectedRegistryState("registry response has no subject")
	}
	person := resp.Person

	if person.DeceasedIndicator {
		e.logger.Warn("client registry returned a deceased person")
		return models.DeceasedSubject()
	}

	documented := FindNameSection(person.Names, hl7.NameUseDocumented)
	legal := FindNameSection(person.Names, hl7.NameUseLegal)
	if documented == nil && legal == nil {
		e.logger.Warn("client registry returned a person without a documented name or a legal name")
		return models.IdentityIncomplete(models.ReasonNoName)
	}
	if documented == nil {
		e.logger.Warn("client registry returned a person without a documented name")
	}

	preferred := documented
	if preferred == nil {
		preferred = legal
	}
	name := AssembleName(*preferred)
	if name.GivenName == "" || name.Surname == "" {
		e.logger.Warn("client registry returned a name without given or family parts")
		return models.IdentityIncomplete(models.ReasonNoName)
	}

	phn, hasPhn := FindPhn(person.Identifiers)
	if !hasPhn {
		e.logger.Warn("client registry returned a person without a PHN")
	}
	hdid, hasHdid := FindHdid(person.Identifiers)
	if !hasHdid {
		e.logger.Warn("client registry returned a person without an HDID")
	}
	if !(hasPhn && hasHdid) && !allowUnvalidated {
		return models.IdentityIncomplete(models.ReasonMissingIdentifier)
	}

	birthDate, err := time.Parse(birthDateLayout, person.BirthDate)
	if err != nil {
		e.logger.Warn("client registry returned an invalid birth date", "birth_date", person.BirthDate)
		return models.IdentityIncomplete(models.ReasonInvalidBirthDate)
	}

	record := models.PatientRecord{
		HDID:            hdid,
		PHN:             phn,
		FirstName:       name.GivenName,
		LastName:        name.Surname,
		CommonName:      optionalName(documented),
		LegalName:       optionalName(legal),
		BirthDate:       birthDate,
		Gender:          models.GenderFromCode(person.GenderCode),
		PhysicalAddress: MapAddress(FindAddress(person.Addresses, hl7.AddressUsePhysical)),
		PostalAddress:   MapAddress(FindAddress(person.Addresses, hl7.AddressUsePostal)),
	}
	if result.Kind == classifier.KindContinueWithAdvisory {
		record.ResponseCode = result.Code
	}
	return models.Success(record)
}

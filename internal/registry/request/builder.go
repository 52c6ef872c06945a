// Package request builds HCIM_IN_GetDemographics queries.
package request

import (
	"time"

	"github.com/google/uuid"

	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
)

const (
	timestampLayout = "20060102150405"

	versionCode        = "V3PR1"
	processingCode     = "P"
	processingModeCode = "T"
	acceptAckCode      = "NE"
)

// Settings are the organization and device identities stamped on every
// query.
type Settings struct {
	SenderOrganization   string
	SenderDevice         string
	ReceiverOrganization string
	DataEnterer          string
	AssigningAuthority   string
}

// DefaultSettings returns the identities the registry expects from the
// health gateway.
func DefaultSettings() Settings {
	return Settings{
		SenderOrganization:   "HGWAY",
		SenderDevice:         "MOH_CRS",
		ReceiverOrganization: "HCIM",
		DataEnterer:          "HLTHGTWAY",
		AssigningAuthority:   "LCTZ_IAS",
	}
}

// Builder produces ProtocolRequests. Apart from the clock and the id
// generator its output depends only on the query.
type Builder struct {
	settings Settings
	now      func() time.Time
	newID    func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithIDGenerator overrides the correlation id source.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) {
		b.newID = newID
	}
}

// WithSettings overrides the default identities. Empty fields keep their
// defaults.
func WithSettings(s Settings) Option {
	return func(b *Builder) {
		if s.SenderOrganization != "" {
			b.settings.SenderOrganization = s.SenderOrganization
		}
		if s.SenderDevice != "" {
			b.settings.SenderDevice = s.SenderDevice
		}
		if s.ReceiverOrganization != "" {
			b.settings.ReceiverOrganization = s.ReceiverOrganization
		}
		if s.DataEnterer != "" {
			b.settings.DataEnterer = s.DataEnterer
		}
		if s.AssigningAuthority != "" {
			b.settings.AssigningAuthority = s.AssigningAuthority
		}
	}
}

// NewBuilder creates a Builder using the wall clock and random UUIDs.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		settings: DefaultSettings(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Settings returns the identities in effect.
func (b *Builder) Settings() Settings {
	return b.settings
}

// Build assembles the query for q. The identifier value is not validated;
// the registry is the authority on its format.
func (b *Builder) Build(q models.IdentifierQuery) hl7.ProtocolRequest {
	timestamp := b.now().Format(timestampLayout)
	clientIP := q.ClientIP
	if clientIP == "" {
		clientIP = models.UnknownClientIP
	}

	return hl7.ProtocolRequest{
		ID:                 hl7.InstanceIdentifier{Root: hl7.OIDMessageID, Extension: b.newID()},
		CreationTime:       timestamp,
		VersionCode:        versionCode,
		InteractionID:      hl7.InstanceIdentifier{Root: hl7.OIDInteractionID, Extension: hl7.InteractionGetDemographics},
		ProcessingCode:     processingCode,
		ProcessingModeCode: processingModeCode,
		AcceptAckCode:      acceptAckCode,
		Receiver: hl7.Device{
			ID:           hl7.InstanceIdentifier{Root: hl7.OIDReceiverDevice, Extension: clientIP},
			Organization: hl7.InstanceIdentifier{Root: hl7.OIDOrganization, Extension: b.settings.ReceiverOrganization},
		},
		Sender: hl7.Device{
			ID:           hl7.InstanceIdentifier{Root: hl7.OIDSenderDevice, Extension: b.settings.SenderDevice},
			Organization: hl7.InstanceIdentifier{Root: hl7.OIDOrganization, Extension: b.settings.SenderOrganization},
		},
		EffectiveTime: timestamp,
		DataEnterer:   hl7.InstanceIdentifier{Root: hl7.OIDDataEnterer, Extension: b.settings.DataEnterer},
		PersonID: hl7.InstanceIdentifier{
			Root:                   q.Kind.Root(),
			Extension:              q.Value,
			AssigningAuthorityName: b.settings.AssigningAuthority,
		},
	}
}

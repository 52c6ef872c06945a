package extract

import (
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
)

// FindAddress returns the first address tagged with use, or nil.
func FindAddress(addresses []hl7.Address, use hl7.AddressUse) *hl7.Address {
	for i := range addresses {
		if addresses[i].HasUse(use) {
			return &addresses[i]
		}
	}
	return nil
}

// MapAddress flattens the typed parts of an address. Every street line text
// is kept in the order encountered; the other fields take the first text of
// their part. A nil address maps to nil.
func MapAddress(address *hl7.Address) *models.Address {
	if address == nil {
		return nil
	}

	out := &models.Address{StreetLines: []string{}}
	for _, part := range address.Parts {
		switch part.Kind {
		case hl7.AddressPartStreetLine:
			out.StreetLines = append(out.StreetLines, part.Values...)
		case hl7.AddressPartCity:
			out.City = firstText(part.Values)
		case hl7.AddressPartState:
			out.State = firstText(part.Values)
		case hl7.AddressPartPostalCode:
			out.PostalCode = firstText(part.Values)
		case hl7.AddressPartCountry:
			out.Country = firstText(part.Values)
		}
	}
	return out
}

func firstText(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

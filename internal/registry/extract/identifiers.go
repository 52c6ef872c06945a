package extract

import "demographics/internal/registry/hl7"

// FindPhn returns the extension of the first PHN-scheme identifier.
func FindPhn(ids []hl7.InstanceIdentifier) (string, bool) {
	for _, id := range ids {
		if id.Root == hl7.OIDPhn {
			return id.Extension, true
		}
	}
	return "", false
}

// FindHdid returns the extension of the first displayable HDID-scheme
// identifier. Non-displayable HDIDs are internal to the registry.
func FindHdid(ids []hl7.InstanceIdentifier) (string, bool) {
	for _, id := range ids {
		if id.Displayable && id.Root == hl7.OIDHdid {
			return id.Extension, true
		}
	}
	return "", false
}

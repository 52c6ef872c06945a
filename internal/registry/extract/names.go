package extract

import (
	"strings"

	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
)

const nameDelimiter = " "

// FindNameSection returns the first section tagged with use, or nil.
func FindNameSection(sections []hl7.NameSection, use hl7.NameUse) *hl7.NameSection {
	for i := range sections {
		if sections[i].HasUse(use) {
			return &sections[i]
		}
	}
	return nil
}

// AssembleName joins the given and family parts of a section in document
// order. Alias parts and prefixes/suffixes are skipped.
func AssembleName(section hl7.NameSection) models.Name {
	var given, family []string
	for _, part := range section.Parts {
		if part.HasQualifier(hl7.QualifierAlias) {
			continue
		}
		switch part.Kind {
		case hl7.NamePartGiven:
			given = append(given, part.Text)
		case hl7.NamePartFamily:
			family = append(family, part.Text)
		}
	}
	return models.Name{
		GivenName: strings.Join(given, nameDelimiter),
		Surname:   strings.Join(family, nameDelimiter),
	}
}

func optionalName(section *hl7.NameSection) *models.Name {
	if section == nil {
		return nil
	}
	name := AssembleName(*section)
	return &name
}

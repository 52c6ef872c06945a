package extract

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demographics/internal/registry/classifier"
	"demographics/internal/registry/fixtures"
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
	"demographics/pkg/testutil"
)

var (
	continueResult = classifier.Result{Kind: classifier.KindContinue}
	documented     = []hl7.NameUse{hl7.NameUseDocumented}
	legal          = []hl7.NameUse{hl7.NameUseLegal}
)

func validPerson() *fixtures.PersonBuilder {
	return fixtures.NewPerson().
		WithName(documented, []string{"John"}, []string{"Doe"}).
		WithPhn(fixtures.JohnDoePhn).
		WithHdid(fixtures.JohnDoeHdid, true)
}

func TestExtractSuccess(t *testing.T) {
	e := New()

	outcome := e.Extract(fixtures.Found(fixtures.JohnDoe()), continueResult, false)

	require.True(t, outcome.IsSuccess())
	p := outcome.Patient
	assert.Equal(t, "John", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, fixtures.JohnDoePhn, p.PHN)
	assert.Equal(t, fixtures.JohnDoeHdid, p.HDID)
	assert.Equal(t, time.Date(1967, 6, 2, 0, 0, 0, 0, time.UTC), p.BirthDate)
	assert.Equal(t, models.GenderMale, p.Gender)
	assert.Equal(t, &models.Name{GivenName: "John", Surname: "Doe"}, p.CommonName)
	assert.Equal(t, &models.Name{GivenName: "Johnathan", Surname: "Doe"}, p.LegalName)
	require.NotNil(t, p.PhysicalAddress)
	assert.Equal(t, []string{"1025 Sutlej Street", "Suite 310"}, p.PhysicalAddress.StreetLines)
	assert.Equal(t, "Victoria", p.PhysicalAddress.City)
	require.NotNil(t, p.PostalAddress)
	assert.Equal(t, "V8W9V1", p.PostalAddress.PostalCode)
	assert.Empty(t, p.ResponseCode)
}

func TestExtractAdvisoryPropagation(t *testing.T) {
	e := New()
	c := classifier.New(nil)

	testutil.Given(t, "a reply classified as continue with advisory", func(t *testing.T) {
		result := c.Classify(fixtures.AdvisoryResponseCode)
		require.Equal(t, classifier.KindContinueWithAdvisory, result.Kind)

		testutil.Then(t, "the full response code is attached to the record", func(t *testing.T) {
			outcome := e.Extract(fixtures.Found(fixtures.AdvisoryPerson()), result, false)
			require.True(t, outcome.IsSuccess())
			assert.Equal(t, fixtures.AdvisoryResponseCode, outcome.Patient.ResponseCode)
			assert.True(t, outcome.Patient.HasAdvisory())
		})
	})
}

func TestExtractDeceasedShortCircuits(t *testing.T) {
	e := New()

	// a deceased subject with no names or identifiers is still reported as deceased
	person := fixtures.NewPerson().Deceased().Build()
	outcome := e.Extract(fixtures.Found(person), continueResult, false)

	assert.Equal(t, models.DeceasedSubject(), outcome)
	assert.Nil(t, outcome.Patient)
}

func TestExtractNamePreference(t *testing.T) {
	e := New()

	t.Run("documented preferred over legal", func(t *testing.T) {
		person := fixtures.NewPerson().
			WithName(legal, []string{"Robert"}, []string{"Smith"}).
			WithName(documented, []string{"Bob"}, []string{"Smith"}).
			WithPhn("9999").WithHdid("H", true).Build()

		outcome := e.Extract(fixtures.Found(person), continueResult, false)
		require.True(t, outcome.IsSuccess())
		assert.Equal(t, "Bob", outcome.Patient.FirstName)
		assert.Equal(t, "Robert", outcome.Patient.LegalName.GivenName)
	})

	t.Run("legal used when no documented", func(t *testing.T) {
		person := fixtures.NewPerson().
			WithName(legal, []string{"Robert"}, []string{"Smith"}).
			WithPhn("9999").WithHdid("H", true).Build()

		outcome := e.Extract(fixtures.Found(person), continueResult, false)
		require.True(t, outcome.IsSuccess())
		assert.Equal(t, "Robert", outcome.Patient.FirstName)
		assert.Nil(t, outcome.Patient.CommonName)
	})

	t.Run("neither documented nor legal", func(t *testing.T) {
		person := fixtures.NewPerson().
			WithName([]hl7.NameUse{"A"}, []string{"Robert"}, []string{"Smith"}).
			WithPhn("9999").WithHdid("H", true).Build()

		outcome := e.Extract(fixtures.Found(person), continueResult, false)
		assert.Equal(t, models.IdentityIncomplete(models.ReasonNoName), outcome)
	})
}

func TestExtractNameAssembly(t *testing.T) {
	e := New()
	section := hl7.NameSection{
		Uses: documented,
		Parts: []hl7.NamePart{
			{Kind: hl7.NamePartPrefix, Text: "Dr"},
			{Kind: hl7.NamePartGiven, Text: "Mary"},
			{Kind: hl7.NamePartGiven, Text: "Molly", Qualifiers: []string{hl7.QualifierAlias}},
			{Kind: hl7.NamePartGiven, Text: "Ann"},
			{Kind: hl7.NamePartFamily, Text: "Smith"},
			{Kind: hl7.NamePartSuffix, Text: "Jr"},
		},
	}
	person := fixtures.NewPerson().WithNameSection(section).WithPhn("9999").WithHdid("H", true).Build()

	outcome := e.Extract(fixtures.Found(person), continueResult, false)

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, "Mary Ann", outcome.Patient.FirstName)
	assert.Equal(t, "Smith", outcome.Patient.LastName)
}

func TestExtractEmptyNameParts(t *testing.T) {
	e := New()

	t.Run("no family parts", func(t *testing.T) {
		person := fixtures.NewPerson().WithName(documented, []string{"Cher"}, nil).WithPhn("9999").WithHdid("H", true).Build()
		assert.Equal(t, models.IdentityIncomplete(models.ReasonNoName), e.Extract(fixtures.Found(person), continueResult, false))
	})

	t.Run("only alias given parts", func(t *testing.T) {
		section := hl7.NameSection{Uses: documented, Parts: []hl7.NamePart{
			{Kind: hl7.NamePartGiven, Text: "Bobby", Qualifiers: []string{hl7.QualifierAlias}},
			{Kind: hl7.NamePartFamily, Text: "Smith"},
		}}
		person := fixtures.NewPerson().WithNameSection(section).WithPhn("9999").WithHdid("H", true).Build()
		assert.Equal(t, models.IdentityIncomplete(models.ReasonNoName), e.Extract(fixtures.Found(person), continueResult, false))
	})
}

func TestExtractIdentifierPolicy(t *testing.T) {
	e := New()

	testutil.Given(t, "a subject without an HDID", func(t *testing.T) {
		person := fixtures.NewPerson().WithName(documented, []string{"John"}, []string{"Doe"}).WithPhn("9999").Build()

		testutil.When(t, "unvalidated identifiers are not allowed", func(t *testing.T) {
			outcome := e.Extract(fixtures.Found(person), continueResult, false)
			testutil.Then(t, "identity is incomplete", func(t *testing.T) {
				assert.Equal(t, models.IdentityIncomplete(models.ReasonMissingIdentifier), outcome)
			})
		})

		testutil.When(t, "unvalidated identifiers are allowed", func(t *testing.T) {
			outcome := e.Extract(fixtures.Found(person), continueResult, true)
			testutil.Then(t, "the record is returned without an HDID", func(t *testing.T) {
				require.True(t, outcome.IsSuccess())
				assert.Empty(t, outcome.Patient.HDID)
				assert.Equal(t, "9999", outcome.Patient.PHN)
			})
		})
	})

	testutil.Given(t, "a subject whose only HDID is not displayable", func(t *testing.T) {
		person := fixtures.NewPerson().WithName(documented, []string{"John"}, []string{"Doe"}).
			WithPhn("9999").WithHdid("HIDDEN", false).Build()

		testutil.Then(t, "the HDID is treated as missing", func(t *testing.T) {
			assert.Equal(t, models.IdentityIncomplete(models.ReasonMissingIdentifier), e.Extract(fixtures.Found(person), continueResult, false))
		})
	})

	testutil.Given(t, "a subject without a PHN", func(t *testing.T) {
		person := fixtures.NewPerson().WithName(documented, []string{"John"}, []string{"Doe"}).WithHdid("H", true).Build()

		testutil.Then(t, "identity is incomplete", func(t *testing.T) {
			assert.Equal(t, models.IdentityIncomplete(models.ReasonMissingIdentifier), e.Extract(fixtures.Found(person), continueResult, false))
		})
	})
}

func TestExtractGates(t *testing.T) {
	e := New()

	t.Run("missing subject", func(t *testing.T) {
		outcome := e.Extract(&hl7.ProtocolResponse{ResponseCode: classifier.CodeRecordFound}, continueResult, false)
		assert.Equal(t, models.OutcomeUnexpectedRegistryState, outcome.Kind)
		assert.Equal(t, "registry response has no subject", outcome.Detail)
	})

	t.Run("nil reply", func(t *testing.T) {
		assert.Equal(t, models.OutcomeUnexpectedRegistryState, e.Extract(nil, continueResult, false).Kind)
	})

	t.Run("non-continue classification", func(t *testing.T) {
		outcome := e.Extract(fixtures.Found(validPerson().Build()), classifier.Result{Kind: classifier.KindNotFound}, false)
		assert.Equal(t, models.OutcomeUnexpectedRegistryState, outcome.Kind)
	})

	t.Run("invalid birth date", func(t *testing.T) {
		person := validPerson().WithBirthDate("1980-01-01").Build()
		assert.Equal(t, models.IdentityIncomplete(models.ReasonInvalidBirthDate), e.Extract(fixtures.Found(person), continueResult, false))
	})

	t.Run("gender mapping", func(t *testing.T) {
		outcome := e.Extract(fixtures.Found(validPerson().WithGender("U").Build()), continueResult, false)
		require.True(t, outcome.IsSuccess())
		assert.Equal(t, models.GenderNotSpecified, outcome.Patient.Gender)
	})

	t.Run("no addresses", func(t *testing.T) {
		outcome := e.Extract(fixtures.Found(validPerson().Build()), continueResult, false)
		require.True(t, outcome.IsSuccess())
		assert.Nil(t, outcome.Patient.PhysicalAddress)
		assert.Nil(t, outcome.Patient.PostalAddress)
	})
}

func TestExtractLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	person := fixtures.NewPerson().WithName(legal, []string{"John"}, []string{"Doe"}).Build()
	e.Extract(fixtures.Found(person), continueResult, false)

	assert.Contains(t, buf.String(), "without a documented name")
	assert.Contains(t, buf.String(), "without a PHN")
	assert.Contains(t, buf.String(), "without an HDID")
}

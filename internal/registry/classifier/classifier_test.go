package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"demographics/pkg/testutil"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name string
		code string
		want Result
	}{
		{"record found", "BCHCIM.GD.0.0013", Result{Kind: KindContinue}},
		{"record found with message text", "BCHCIM.GD.0.0013 Record found", Result{Kind: KindContinue}},
		{"not found", "BCHCIM.GD.2.0018", Result{Kind: KindNotFound}},
		{"invalid phn", "BCHCIM.GD.2.0006", Result{Kind: KindInvalidIdentifierFormat}},
		{"advisory without found marker", "BCHCIM.GD.1.0019", Result{Kind: KindContinueWithAdvisory, Code: "BCHCIM.GD.1.0019"}},
		{"advisory with found marker", "BCHCIM.GD.0.0013|BCHCIM.GD.0.0578", Result{Kind: KindContinueWithAdvisory, Code: "BCHCIM.GD.0.0013|BCHCIM.GD.0.0578"}},
		{"unknown code", "BCHCIM.GD.9.9999", Result{Kind: KindNoPersonReturned, Code: "BCHCIM.GD.9.9999"}},
		{"empty code", "", Result{Kind: KindNoPersonReturned}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.code))
		})
	}
}

func TestClassifyRuleOrdering(t *testing.T) {
	c := New(nil)

	testutil.Given(t, "a code containing both not-found and advisory fragments", func(t *testing.T) {
		code := "BCHCIM.GD.2.0018 BCHCIM.GD.0.0015"
		testutil.Then(t, "not found wins", func(t *testing.T) {
			assert.Equal(t, KindNotFound, c.Classify(code).Kind)
		})
	})

	testutil.Given(t, "a code containing invalid-phn and the found marker", func(t *testing.T) {
		code := "BCHCIM.GD.0.0013 BCHCIM.GD.2.0006"
		testutil.Then(t, "invalid identifier wins", func(t *testing.T) {
			assert.Equal(t, KindInvalidIdentifierFormat, c.Classify(code).Kind)
		})
	})

	testutil.Given(t, "a code containing not-found and invalid-phn", func(t *testing.T) {
		code := "BCHCIM.GD.2.0006;BCHCIM.GD.2.0018"
		testutil.Then(t, "not found wins", func(t *testing.T) {
			assert.Equal(t, KindNotFound, c.Classify(code).Kind)
		})
	})
}

func TestNewAdvisoryCodes(t *testing.T) {
	t.Run("defaults when empty", func(t *testing.T) {
		c := New([]string{" ", ""})
		assert.Equal(t, DefaultAdvisoryCodes, c.AdvisoryCodes())
	})

	t.Run("custom list replaces defaults", func(t *testing.T) {
		c := New([]string{" BCHCIM.GD.0.0099 ", "BCHCIM.GD.0.0099"})
		assert.Equal(t, []string{"BCHCIM.GD.0.0099"}, c.AdvisoryCodes())

		assert.Equal(t, KindContinueWithAdvisory, c.Classify("BCHCIM.GD.0.0099").Kind)
		assert.Equal(t, KindNoPersonReturned, c.Classify("BCHCIM.GD.0.0015").Kind)
	})

	t.Run("returned list is a copy", func(t *testing.T) {
		c := New(nil)
		codes := c.AdvisoryCodes()
		codes[0] = "mutated"
		assert.True(t, c.IsAdvisory("BCHCIM.GD.0.0015"))
	})
}

func TestShouldExtract(t *testing.T) {
	assert.True(t, Result{Kind: KindContinue}.ShouldExtract())
	assert.True(t, Result{Kind: KindContinueWithAdvisory}.ShouldExtract())
	assert.False(t, Result{Kind: KindNotFound}.ShouldExtract())
	assert.False(t, Result{Kind: KindInvalidIdentifierFormat}.ShouldExtract())
	assert.False(t, Result{Kind: KindNoPersonReturned}.ShouldExtract())
}

// Package classifier maps a registry response code onto the action the
// client takes with the reply.
//
// Response codes overlap: a single code string may contain several known
// status fragments. Classification is therefore an ordered rule list where
// the first matching rule wins. This is pure domain logic with no I/O.
package classifier

import (
	"strings"

	pstrings "demographics/pkg/platform/strings"
)

// Registry status fragments.
const (
	CodeRecordFound = "BCHCIM.GD.0.0013"
	CodeNotFound    = "BCHCIM.GD.2.0018"
	CodeInvalidPhn  = "BCHCIM.GD.2.0006"
)

// DefaultAdvisoryCodes are the non-fatal statuses: the subject is returned
// but the record carries a caution the caller should surface.
var DefaultAdvisoryCodes = []string{
	"BCHCIM.GD.0.0015",
	"BCHCIM.GD.1.0015",
	"BCHCIM.GD.0.0019",
	"BCHCIM.GD.1.0019",
	"BCHCIM.GD.0.0020",
	"BCHCIM.GD.1.0020",
	"BCHCIM.GD.0.0021",
	"BCHCIM.GD.1.0021",
	"BCHCIM.GD.0.0022",
	"BCHCIM.GD.1.0022",
	"BCHCIM.GD.0.0023",
	"BCHCIM.GD.1.0023",
	"BCHCIM.GD.0.0578",
	"BCHCIM.GD.1.0578",
}

// Kind is the classification of a response code.
type Kind string

const (
	KindContinue                Kind = "continue"
	KindContinueWithAdvisory    Kind = "continue_with_advisory"
	KindNotFound                Kind = "not_found"
	KindInvalidIdentifierFormat Kind = "invalid_identifier_format"
	KindNoPersonReturned        Kind = "no_person_returned"
)

// Result of classifying a response code. Code is the full response code for
// KindContinueWithAdvisory and KindNoPersonReturned, empty otherwise.
type Result struct {
	Kind Kind
	Code string
}

// ShouldExtract reports whether the reply carries a subject worth extracting.
func (r Result) ShouldExtract() bool {
	return r.Kind == KindContinue || r.Kind == KindContinueWithAdvisory
}

type rule struct {
	name    string
	matches func(code string) bool
	kind    Kind
}

// Classifier holds the compiled rule list. It is immutable and safe for
// concurrent use.
type Classifier struct {
	advisory []string
	rules    []rule
}

// New compiles the rule list. A nil or empty advisory list selects
// DefaultAdvisoryCodes; entries are trimmed and deduplicated.
func New(advisoryCodes []string) *Classifier {
	codes := pstrings.DedupeAndTrim(advisoryCodes)
	if len(codes) == 0 {
		codes = pstrings.DedupeAndTrim(DefaultAdvisoryCodes)
	}

	c := &Classifier{advisory: codes}
	// Rule priority (first match wins):
	//  1. not found
	//  2. invalid PHN
	//  3. advisory
	//  4. anything without the record-found marker
	c.rules = []rule{
		{name: "not_found", matches: containsFn(CodeNotFound), kind: KindNotFound},
		{name: "invalid_phn", matches: containsFn(CodeInvalidPhn), kind: KindInvalidIdentifierFormat},
		{name: "advisory", matches: c.IsAdvisory, kind: KindContinueWithAdvisory},
		{name: "no_person", matches: func(code string) bool { return !strings.Contains(code, CodeRecordFound) }, kind: KindNoPersonReturned},
	}
	return c
}

// Classify returns the first matching rule's kind, or KindContinue.
func (c *Classifier) Classify(code string) Result {
	for _, r := range c.rules {
		if !r.matches(code) {
			continue
		}
		switch r.kind {
		case KindContinueWithAdvisory, KindNoPersonReturned:
			return Result{Kind: r.kind, Code: code}
		default:
			return Result{Kind: r.kind}
		}
	}
	return Result{Kind: KindContinue}
}

// IsAdvisory reports whether code contains any configured advisory code.
func (c *Classifier) IsAdvisory(code string) bool {
	_, ok := pstrings.ContainsAny(code, c.advisory)
	return ok
}

// AdvisoryCodes returns a copy of the configured advisory list.
func (c *Classifier) AdvisoryCodes() []string {
	out := make([]string, len(c.advisory))
	copy(out, c.advisory)
	return out
}

func containsFn(fragment string) func(string) bool {
	return func(code string) bool {
		return strings.Contains(code, fragment)
	}
}

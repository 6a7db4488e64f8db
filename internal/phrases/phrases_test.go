package phrases

import (
	"testing"

	"github.com/mikey/email-triage/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAdjacency(t *testing.T) {
	re := MustCompile("already paid")

	assert.True(t, re.MatchString("We have ALREADY paid this."))
	assert.True(t, re.MatchString("already, paid"))
	assert.False(t, re.MatchString("already been paid"))
	assert.False(t, re.MatchString("alreadypaid"))
}

func TestCompileGap(t *testing.T) {
	re := MustCompile("out ... until")

	assert.True(t, re.MatchString("out until monday"))
	assert.True(t, re.MatchString("I am out of office until Monday."))
	assert.True(t, re.MatchString("out of the office until"))
	assert.False(t, re.MatchString("out of the main office building until"))
}

func TestCompileLoose(t *testing.T) {
	tests := []struct {
		phrase string
		text   string
		want   bool
	}{
		{"do not owe", "We do not actually owe this balance to your client at all.", true},
		{"balance is not ours", "The balance on this account is not ours and we will not pay.", true},
		{"invoice ... attached", "The invoice you asked about last week is attached to this message.", true},
		{"ticket resolved", "Your ticket #4455 has been resolved by our support staff.", true},
		{"amount is in dispute", "The amount billed on the March statement is still in dispute.", true},
		{"payment will be sent", "Payment for all open items will be sent on Friday.", true},
		{"do not owe", "We do owe this.", false},
		{"do not owe", "do\nnot\nowe", false},
		{"dispute", "undisputed", false},
		{"ticket resolved", "resolved ticket", false},
	}
	for _, tt := range tests {
		t.Run(tt.phrase+"/"+tt.text, func(t *testing.T) {
			re, err := CompileLoose(tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.text))
		})
	}

	// The strict form keeps adjacency for the router's literal checks
	assert.False(t, MustCompile("do not owe").MatchString("We do not actually owe this."))
	assert.False(t, MustCompile("invoice ... attached").MatchString("The invoice you asked about last week is attached."))
}

func TestLeafLooseSets(t *testing.T) {
	e, ok := Lookup(KeyDisputedPayment)
	require.True(t, ok)

	text := "we do not actually owe this balance"
	assert.Zero(t, e.Set.Count(text))
	assert.Positive(t, e.Loose.Count(text))
	assert.Equal(t, e.Set.Len(), e.Loose.Len())
}

func TestCompileWordBoundaries(t *testing.T) {
	assert.False(t, MustCompile("dispute").MatchString("undisputed"))
	assert.True(t, MustCompile("eft#").MatchString("see eft#12345"))
	assert.True(t, MustCompile("assigned #").MatchString("you were assigned #4411"))
	assert.True(t, MustCompile("esq.").MatchString("John Smith, Esq. writes"))
	assert.True(t, MustCompile("don't owe").MatchString("we dont owe anything"))
}

func TestCompilePlaceholders(t *testing.T) {
	assert.True(t, MustCompile("paid on <date>").MatchString("paid on 4/12/2024 by card"))
	assert.True(t, MustCompile("chapter <num>").MatchString("filed chapter 11"))
	assert.True(t, MustCompile("please contact <word>").MatchString("please contact Jane"))
	assert.False(t, MustCompile("paid on <date>").MatchString("paid on monday"))
}

func TestCompileErrors(t *testing.T) {
	for _, bad := range []string{"", "   ", "... paid", "paid ...", "a ... ... b"} {
		_, err := Compile(bad)
		assert.Error(t, err, bad)
	}
}

func TestSet(t *testing.T) {
	s := NewSet("already paid", "check sent", "wire")

	text := "We already paid, the check sent last week."
	assert.True(t, s.Any(text))
	assert.Equal(t, 2, s.Count(text))
	assert.Equal(t, []string{"already paid", "check sent"}, s.Matches(text))
	assert.Equal(t, 3, s.Len())
	assert.False(t, NewSet().Any(text))
}

func TestTableMatchesTaxonomy(t *testing.T) {
	tree := taxonomy.Default()
	seen := make(map[string]bool)

	for _, e := range Entries() {
		assert.True(t, tree.IsLeaf(e.Subcategory), e.Key)
		assert.True(t, tree.Validate(e.Category, e.Subcategory), e.Key)
		assert.False(t, seen[e.Key], "duplicate key %s", e.Key)
		seen[e.Key] = true
		assert.Equal(t, len(e.Patterns), e.Set.Len())
		assert.NotEmpty(t, e.Indicators, e.Key)
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(KeyClaimsPaid)
	require.True(t, ok)
	assert.Equal(t, taxonomy.ClaimsPaidNoInfo, e.Subcategory)

	_, ok = Lookup("missing")
	assert.False(t, ok)
	assert.False(t, For("missing").Any("anything"))

	e, ok = BySubcategory(taxonomy.ReturnDate)
	require.True(t, ok)
	assert.Equal(t, KeyReturnDate, e.Key)
}

func TestDisputeSetIgnoresPaymentClaims(t *testing.T) {
	dispute := For(KeyDisputedPayment)

	assert.True(t, dispute.Any("We owe them nothing."))
	assert.True(t, dispute.Any("I dispute this amount."))
	assert.False(t, dispute.Any("We have already paid this invoice."))
	assert.False(t, dispute.Any("We need confirmation that payment was received for invoice #12345."))
}

package features

import "regexp"

// financialGroups maps a financial topic to its keywords. Order is the
// order topics and terms are reported in.
var financialGroups = []struct {
	Name     string
	Keywords []string
}{
	{"payment", []string{"payment", "paid", "check", "wire", "eft", "transaction", "transfer", "remittance"}},
	{"invoice", []string{"invoice", "bill", "statement", "billing", "charges", "fees"}},
	{"dispute", []string{"dispute", "contested", "scam", "fdcpa", "challenge", "refuse", "bogus"}},
	{"legal", []string{"attorney", "lawyer", "legal", "settlement", "court", "litigation"}},
	{"closure", []string{"closed", "bankruptcy", "ceased operations", "liquidated", "dissolved"}},
}

var (
	positiveWords = []string{
		"thank", "appreciate", "great", "happy", "pleased", "resolved", "glad",
		"helpful", "excellent", "welcome", "wonderful",
	}
	negativeWords = []string{
		"dispute", "refuse", "wrong", "error", "incorrect", "scam", "bogus", "complaint",
		"unacceptable", "angry", "frustrated", "disappointed", "harassment", "fail", "problem",
	}

	urgencyWords  = []string{"urgent", "immediate", "asap", "critical", "deadline", "emergency", "priority"}
	urgencyObject = []string{"payment", "response", "action"}
	deadlineTerms = []string{
		"deadline", "due date", "by end of day", "end of business", "within 24 hours",
		"within 48 hours", "final notice", "past due", "overdue",
	}

	actionWords       = []string{"please", "need", "send", "provide", "confirm", "verify", "forward", "share"}
	strongImperatives = []string{
		"please provide", "please send", "please confirm", "please advise", "must be",
		"immediately", "action required", "required to", "kindly",
	}

	complexityWords = []string{
		"however", "although", "furthermore", "additionally", "clarify", "discrepancy",
		"reconcile", "breakdown", "multiple", "several", "various", "settlement",
		"negotiate", "arrangement", "escalate",
	}
)

// Entity types
const (
	EntityEmail       = "email"
	EntityPhone       = "phone"
	EntityAccount     = "account"
	EntityCase        = "case"
	EntityInvoice     = "invoice"
	EntityTransaction = "transaction"
	EntityAmount      = "amount"
	EntityDate        = "date"
	EntityReference   = "reference"
)

const idTail = `\s*(?:#|no\.?|number|id)?\s*:?\s*#?`

var entityPatterns = []struct {
	Type string
	Re   *regexp.Regexp
}{
	{EntityEmail, regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)},
	{EntityPhone, regexp.MustCompile(`(?:\(\d{3}\)\s?|\b\d{3}[-.\s])\d{3}[-.\s]\d{4}\b`)},
	{EntityAccount, regexp.MustCompile(`(?i)\b(?:account|acct)` + idTail + `\d[a-z0-9-]{3,}`)},
	{EntityCase, regexp.MustCompile(`(?i)\b(?:case|ticket)` + idTail + `\d[a-z0-9-]{2,}`)},
	{EntityInvoice, regexp.MustCompile(`(?i)\b(?:invoice|inv)` + idTail + `\d[a-z0-9-]{2,}`)},
	{EntityTransaction, regexp.MustCompile(`(?i)\b(?:transaction|confirmation|batch|eft|ach|check)` + idTail + `\d[a-z0-9-]{3,}`)},
	{EntityAmount, regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{1,2})?`)},
	{EntityDate, regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)},
	{EntityReference, regexp.MustCompile(`(?i)\b(?:ref|reference)` + idTail + `[a-z0-9-]*\d[a-z0-9-]*`)},
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

package phrases

import (
	"github.com/mikey/email-triage/internal/taxonomy"
)

// Leaf keys, in discovery order
const (
	KeyDisputedPayment     = "partial_disputed_payment"
	KeyInvoiceReceipt      = "invoice_receipt"
	KeyClosureNotification = "closure_notification"
	KeyClosurePaymentDue   = "closure_payment_due"
	KeyExternalSubmission  = "external_submission"
	KeyInvoiceErrors       = "invoice_errors_format"
	KeyInquiryRedirection  = "inquiry_redirection"
	KeyComplexQueries      = "complex_queries"
	KeySalesOffers         = "sales_offers"
	KeySystemAlerts        = "system_alerts"
	KeyProcessingErrors    = "processing_errors"
	KeyClosureInfoOnly     = "business_closure_info"
	KeyThankYou            = "general_thank_you"
	KeyTicketCreated       = "tickets_created"
	KeyTicketResolved      = "tickets_resolved"
	KeyTicketOpen          = "tickets_open"
	KeyRequestNoInfo       = "request_no_info"
	KeyClaimsPaid          = "claims_paid_no_info"
	KeyPaymentConfirmation = "payment_confirmation"
	KeyPaymentDetails      = "payment_details_received"
	KeyAlternateContact    = "ooo_with_alternate_contact"
	KeyReturnDate          = "ooo_return_date"
	KeyNoInfoAutoreply     = "ooo_no_info"
	KeySurvey              = "survey"
	KeyRedirectsUpdates    = "redirects_updates"
)

// Leaf ties one terminal label to the phrases pointing at it. Patterns are
// in phrase notation; the rule router matches them strictly and the pattern
// engine loosely. Indicators are literal lowercase substrings used for
// topic detection.
type Leaf struct {
	Key         string
	Category    string
	Subcategory string
	Patterns    []string
	Indicators  []string
}

// Entry is a leaf with its patterns compiled both ways
type Entry struct {
	Leaf
	Set   *Set
	Loose *Set
}

var leaves = []Leaf{
	{
		Key: KeyDisputedPayment, Category: taxonomy.ManualReview, Subcategory: taxonomy.DisputedPayment,
		Patterns: []string{
			"dispute", "disputed", "disputing", "i dispute", "in dispute", "dispute this",
			"amount is in dispute", "balance is not ours", "balance is not accurate",
			"not our responsibility", "do not owe", "don't owe", "owe nothing", "owe them nothing",
			"owe you nothing", "contested", "disagreement", "refuse", "refuse to pay", "formally disputing",
			"not accurate", "that not my bill", "not my bill", "sale of property", "not ours due to",
			"partial payment", "challenge ... payment", "waive ... charges", "cancel ... account",
			"material breach", "breach of contract", "owes me", "owes us",
			"debt is disputed", "not properly billed", "billing error", "billed to ... wrong",
			"appropriate payor", "wrong entity", "wrong party", "incorrect billing",
			"correct ... billing error", "billed incorrectly", "these charges are bogus", "bogus charge",
			"cease and desist", "debt validation", "verify this debt", "no record of any charge",
			"dispute payment", "contested payment", "disagreement payment", "charges and cancel",
			"dispute billing", "must correct their billing", "disputing this debt", "disputing these charges",
		},
		Indicators: []string{
			"formally disputing", "dispute this debt", "do not acknowledge", "owe nothing",
			"owe them nothing", "consider this a scam", "looks like a scam", "billing is incorrect",
			"not our responsibility", "cease and desist", "fdcpa violation", "debt validation",
			"fair debt collection", "contested payment", "refuse payment", "challenge payment",
			"not properly billed", "wrong entity", "debt is disputed", "verify this debt",
			"no record of any charge", "haven't done business with", "havent done business with",
			"error on your end", "write off this amount", "charge is bogus", "bogus charge",
			"don't owe", "dont owe", "are not responsible", "not liable for this", "incorrect charge",
			"wrong amount", "billing mistake", "charge in error", "was disputing", "disputing with",
			"minimum settlement amount",
		},
	},
	{
		Key: KeyInvoiceReceipt, Category: taxonomy.ManualReview, Subcategory: taxonomy.InvoiceReceipt,
		Patterns: []string{
			"invoice ... attached", "invoice copy attached", "see attached invoice", "here is ... invoice",
			"proof of invoice", "invoice receipt", "invoice documentation", "copy of invoice attached",
			"invoice is attached",
		},
		Indicators: []string{
			"invoice receipt attached", "proof of invoice attached", "copy of invoice attached",
			"invoice documentation attached", "here is the invoice copy", "attached invoice as proof",
			"invoice receipt for your records",
		},
	},
	{
		Key: KeyClosureNotification, Category: taxonomy.ManualReview, Subcategory: taxonomy.ClosureNotification,
		Patterns: []string{
			"business ... closed", "company ... closed", "out of business", "ceased operations",
			"filed ... bankruptcy", "bankruptcy protection", "chapter 7", "chapter 11",
		},
		Indicators: []string{
			"business closed", "company closed", "out of business", "ceased operations",
			"filed bankruptcy", "bankruptcy protection", "business shutting down", "permanently closed",
			"company liquidated", "filing for bankruptcy", "going out of business", "company dissolved",
			"operations terminated",
		},
	},
	{
		Key: KeyClosurePaymentDue, Category: taxonomy.ManualReview, Subcategory: taxonomy.ClosurePaymentDue,
		Patterns: []string{
			"closed ... payment due", "business closed ... outstanding", "closure ... payment required",
			"bankruptcy ... payment", "closure with ... payment", "filed bankruptcy payment",
		},
		Indicators: []string{
			"business closed outstanding payment", "closure with outstanding payment",
			"bankruptcy payment due", "closed but payment owed", "closure payment required",
		},
	},
	{
		Key: KeyExternalSubmission, Category: taxonomy.ManualReview, Subcategory: taxonomy.ExternalSubmission,
		Patterns: []string{
			"invoice issue", "invoice problem", "invoice error", "import failed", "failed import",
			"invoice submission failed", "documents ... not processed", "submission failed",
			"unable to import", "import unsuccessful", "could not import", "failed to import", "error importing",
		},
		Indicators: []string{
			"invoice submission failed", "import failed", "unable to import invoice", "documents not processed",
			"submission unsuccessful", "error importing invoice", "invoice processing failed", "upload failed",
			"system rejected submission",
		},
	},
	{
		Key: KeyInvoiceErrors, Category: taxonomy.ManualReview, Subcategory: taxonomy.InvoiceErrors,
		Patterns: []string{
			"missing field", "missing ... fields", "format mismatch", "incomplete invoice", "required field",
			"invoice format issue", "format error", "field missing",
		},
		Indicators: []string{
			"missing required field", "format mismatch", "incomplete invoice", "invoice format error",
			"field missing from invoice", "invalid invoice format", "format requirements not met",
			"invoice template error", "missing mandatory fields",
		},
	},
	{
		Key: KeyInquiryRedirection, Category: taxonomy.ManualReview, Subcategory: taxonomy.InquiryRedirection,
		Patterns: []string{
			"insufficient data provided to research", "there is insufficient data", "please ask",
			"i need guidance", "please advise what is needed", "redirect to", "forward ... to",
			"contact ... instead", "reach out to", "please check with", "please refer to", "contact our office",
			"what documentation ... needed", "should this be paid to", "how should we pay",
			"where to send payment", "looks like a scam", "think ... scam", "verify ... legitimate",
			"are you legitimate", "gotten scammed", "verify authenticity", "consider this a scam",
		},
		Indicators: []string{
			"insufficient data to research", "need guidance", "please advise", "redirect to", "contact instead",
			"please check with", "what documentation needed", "where to send payment", "verify legitimate",
			"guidance required", "need clarification", "don't have an account with", "what is the servicing address",
		},
	},
	{
		Key: KeyComplexQueries, Category: taxonomy.ManualReview, Subcategory: taxonomy.ComplexQueries,
		Patterns: []string{
			"multiple issues", "several questions", "complex situation", "detailed inquiry",
			"various concerns", "legal communication", "attorney communication",
		},
		Indicators: []string{
			"settlement arrangement", "legal settlement agreement", "settlement negotiation",
			"attorney settlement", "legal resolution", "court settlement", "routing instructions",
			"multi step process", "special handling instructions", "attorney involvement",
			"legal proceedings", "mediation settlement",
		},
	},
	{
		Key: KeySalesOffers, Category: taxonomy.NoReply, Subcategory: taxonomy.SalesOffers,
		Patterns: []string{
			"special offer", "limited time offer", "promotional offer", "sales promotion", "discount offer",
			"exclusive deal", "flash sale", "promo code",
		},
		Indicators: []string{
			"special offer", "limited time offer", "promotional offer", "discount offer", "exclusive deal",
			"prices increasing", "price increase", "sale ending", "hours left",
		},
	},
	{
		Key: KeySystemAlerts, Category: taxonomy.NoReply, Subcategory: taxonomy.SystemAlerts,
		Patterns: []string{
			"system notification", "automated notification", "system alert", "maintenance notification",
			"service update", "backup completed", "security alert", "delivery notification",
		},
		Indicators: []string{
			"system notification", "automated notification", "system alert", "maintenance notification",
			"security alert", "server maintenance", "system upgrade", "service disruption",
		},
	},
	{
		Key: KeyProcessingErrors, Category: taxonomy.NoReply, Subcategory: taxonomy.ProcessingErrors,
		Patterns: []string{
			"pdf file is not attached", "error reason", "processing error", "cannot be processed",
			"electronic invoice rejected", "failed to process", "case rejection", "processing failed",
			"unable to process", "rejected for no attachment", "mail delivery failed", "email bounced",
			"delivery failure", "message undelivered", "bounce back", "cannot be delivered",
		},
		Indicators: []string{
			"processing error", "failed to process", "cannot be processed", "electronic invoice rejected",
			"couldn't be created", "system unable to process", "mail delivery failed", "email bounced",
			"delivery failure", "system malfunction", "processing failure",
		},
	},
	{
		Key: KeyClosureInfoOnly, Category: taxonomy.NoReply, Subcategory: taxonomy.ClosureInfoOnly,
		Patterns: []string{
			"business closure information", "closure notification only", "closure announcement",
		},
		Indicators: []string{
			"business closure information", "closure notification only", "informational closure",
			"closure announcement", "business will close", "store closing notice",
		},
	},
	{
		Key: KeyThankYou, Category: taxonomy.NoReply, Subcategory: taxonomy.ThankYou,
		Patterns: []string{
			"unsubscribe", "email preferences", "thank you for your email", "thanks for your email",
			"thank you for contacting", "still reviewing", "will get back to you", "currently reviewing",
			"we are reviewing", "processing your request", "for your records",
		},
		Indicators: []string{
			"thank you for your email", "thanks for your email", "thank you for contacting",
			"will get back to you",
		},
	},
	{
		Key: KeyTicketCreated, Category: taxonomy.NoReply, Subcategory: taxonomy.TicketCreated,
		Patterns: []string{
			"ticket created", "case opened", "new ticket", "support request created", "case number is",
			"assigned #", "support ticket opened", "case has been created", "ticket has been created",
			"ticket opened", "thank you for submitting your case",
		},
		Indicators: []string{
			"ticket created", "case opened", "new ticket opened", "support request created",
			"case has been created", "ticket submitted successfully", "case number assigned",
			"support ticket opened", "case logged", "ticket logged", "new case created", "support case opened",
		},
	},
	{
		Key: KeyTicketResolved, Category: taxonomy.NoReply, Subcategory: taxonomy.TicketResolved,
		Patterns: []string{
			"ticket resolved", "case closed", "case resolved", "case has been resolved",
			"ticket has been resolved", "case is now closed", "request completed", "moved to solved",
			"marked as resolved",
		},
		Indicators: []string{
			"ticket resolved", "case resolved", "case closed", "ticket has been resolved", "marked as resolved",
			"status resolved", "case completed", "issue resolved", "ticket closed successfully",
			"ticket marked complete", "issue closed",
		},
	},
	{
		Key: KeyTicketOpen, Category: taxonomy.NoReply, Subcategory: taxonomy.TicketOpen,
		Patterns: []string{
			"ticket ... open", "case ... open", "still pending", "in progress", "case pending",
		},
		Indicators: []string{
			"ticket open", "case open", "still pending", "case pending", "under investigation",
			"awaiting response", "pending review",
		},
	},
	{
		Key: KeyRequestNoInfo, Category: taxonomy.InvoicesRequest, Subcategory: taxonomy.RequestNoInfo,
		Patterns: []string{
			"provide me with outstanding invoices", "send me copies of any invoices",
			"can you send me the invoice", "provide us with the invoice", "send me the invoice copy",
			"need invoice copy", "provide invoice copy", "copies of any invoices", "outstanding invoices owed",
			"send ... invoice", "send ... invoices", "need invoice", "need ... invoices", "provide ... invoice",
			"provide ... invoices", "invoice request", "invoice copy", "copy of ... invoice", "copies of ... invoices",
		},
		Indicators: []string{
			"send me the invoice", "provide the invoice", "need invoice copy", "invoice request",
			"copies of invoices", "send invoices that are due", "provide outstanding invoices",
			"forward invoice copy", "share invoice copy", "need invoice documentation", "send invoice copy",
			"invoice copy needed", "need copy of invoice", "please send invoice", "provide invoice copy",
		},
	},
	{
		Key: KeyClaimsPaid, Category: taxonomy.PaymentsClaim, Subcategory: taxonomy.ClaimsPaidNoInfo,
		Patterns: []string{
			"its been paid", "it's been paid", "has been settled", "already paid", "been paid to them",
			"payment was made", "we paid", "bill was paid", "paid directly to", "settled with",
			"sent check on", "payment was sent", "payment sent", "we sent payment", "has already been sent",
			"this was paid", "it was paid", "i have paid my account", "paid ... via cc", "sent payment",
			"payment made", "was paid", "been paid", "payment completed", "made payment", "remitted",
			"account paid", "paid by check", "paid by credit card", "wired payment", "ach payment",
			"check sent", "paid in full", "already sent", "should not be getting this",
			"sent ... check", "check ... sent",
		},
		Indicators: []string{
			"already paid", "payment was made", "we paid", "bill was paid", "payment was sent", "check was sent",
			"payment completed", "this was paid", "account paid", "made payment", "been paid",
			"payment processed", "invoice settled", "account was paid", "invoice was paid", "bill has been paid",
			"we have paid", "payment was completed", "check mailed", "payment sent", "balance paid",
			"have paid all", "paid all these",
		},
	},
	{
		Key: KeyPaymentConfirmation, Category: taxonomy.PaymentsClaim, Subcategory: taxonomy.PaymentConfirmation,
		Patterns: []string{
			"proof of payment", "payment confirmation", "i have ... receipt", "check number", "eft#",
			"confirmation #", "confirmation number", "payment has been released", "was reconciled",
			"here is proof", "attached proof", "payment evidence", "wire document", "receipt for",
			"transaction id", "transaction number", "payment reference", "voucher id", "cleared bank",
			"batch number", "record of payment", "paid on <date>", "paid via mastercard", "paid via visa",
			"payment record included",
		},
		Indicators: []string{
			"payment confirmation attached", "proof of payment", "check number", "transaction id", "eft#",
			"wire confirmation", "batch number", "here is proof of payment", "payment receipt attached",
			"invoice was paid see attachments", "payment verified", "paid via transaction number",
			"receipt attached", "confirmation attached", "payment receipt", "bank confirmation",
			"transfer confirmation", "payment verification", "proof attached", "sent proof",
		},
	},
	{
		Key: KeyPaymentDetails, Category: taxonomy.PaymentsClaim, Subcategory: taxonomy.PaymentDetailsReceived,
		Patterns: []string{
			"payment will be sent", "payment is being processed", "check will be mailed", "payment scheduled",
			"checks will be mailed", "payment timeline", "payment being processed", "invoice being processed",
			"payment details", "remittance info", "payment breakdown", "waiting to receive ... payments",
			"waiting for payment from", "payment delayed", "expecting payment from",
		},
		Indicators: []string{
			"payment will be sent", "payment being processed", "check will be mailed", "payment scheduled",
			"in process of issuing payment", "invoices being processed for payment", "will pay this online",
			"working on payment", "need time to pay", "payment in progress", "make payment from next",
			"plan to pay", "will pay next week", "payment next week", "will issue payment",
			"payment will be issued", "arranging payment", "scheduling payment", "will send payment",
			"planning to pay", "intend to pay", "tried to pay", "trouble paying", "unable to pay",
		},
	},
	{
		Key: KeyAlternateContact, Category: taxonomy.AutoReply, Subcategory: taxonomy.AlternateContact,
		Patterns: []string{
			"out of office ... contact", "out of office ... reach out", "contact me at", "please contact <word>",
			"call my cell", "call my mobile", "if you need immediate assistance", "for all of your ap needs",
			"if urgent", "urgent ... please contact", "alternate contact",
		},
		Indicators: []string{
			"alternate contact", "emergency contact number", "urgent matters contact", "contact me at",
			"reach me at", "call for urgent", "call me at", "for urgent assistance", "emergency phone",
			"alternate phone", "backup contact",
		},
	},
	{
		Key: KeyReturnDate, Category: taxonomy.AutoReply, Subcategory: taxonomy.ReturnDate,
		Patterns: []string{
			"out of office ... until", "out ... until", "return on", "returning on", "back on",
			"available after", "will be back", "when i return", "away until", "back in the office on",
			"returning <word>",
		},
		Indicators: []string{
			"return on", "back on", "returning on", "will be back on", "return date is",
			"expected return date", "back monday", "return monday", "back next week", "return next week",
			"out until", "away until", "return after holiday", "back from vacation on", "back on friday",
			"back after weekend", "return after", "will be back", "expected back", "returning after",
		},
	},
	{
		Key: KeyNoInfoAutoreply, Category: taxonomy.AutoReply, Subcategory: taxonomy.NoInfoAutoreply,
		Patterns: []string{
			"out of office", "out of the office", "automatic reply", "auto-reply", "auto reply",
			"i am currently out", "i will be out", "away from ... desk", "limited access to ... email",
			"will return", "on vacation", "on leave", "currently traveling", "automated response",
		},
		Indicators: []string{
			"out of office", "automatic reply", "auto-reply", "currently out", "away from desk", "on vacation",
			"limited access to email", "automated response", "currently unavailable", "attending meetings",
			"offsite conference", "limited email access", "no access to email", "temporarily away",
			"away from office", "out of the office", "will be out", "currently offsite",
		},
	},
	{
		Key: KeySurvey, Category: taxonomy.AutoReply, Subcategory: taxonomy.Survey,
		Patterns: []string{
			"survey", "feedback request", "rate our service", "customer satisfaction", "please rate",
			"feedback is important", "would appreciate your feedback", "complete ... survey",
		},
		Indicators: []string{
			"survey", "feedback request", "rate our service", "customer satisfaction", "take our survey",
			"your feedback is important", "please rate", "questionnaire", "service evaluation", "feedback form",
		},
	},
	{
		Key: KeyRedirectsUpdates, Category: taxonomy.AutoReply, Subcategory: taxonomy.RedirectsUpdates,
		Patterns: []string{
			"is no longer with", "please direct all future inquiries to", "not accounts payable",
			"direct inquiries to", "no longer employed", "contact the vendor directly", "no longer be accepted",
			"now using", "please submit all future", "contact changed", "new contact", "property manager",
			"department changed", "contact redirection", "forwarding to",
		},
		Indicators: []string{
			"property manager changed", "no longer employed", "contact changed", "department changed",
			"no longer with company", "position changed", "email address changed",
			"contact information updated", "no longer affiliated", "contact details changed",
			"management changed", "new contact person",
		},
	},
}

var (
	entries = compileEntries()
	byKey   = indexEntries()
)

func compileEntries() []Entry {
	out := make([]Entry, len(leaves))
	for i, l := range leaves {
		out[i] = Entry{Leaf: l, Set: NewSet(l.Patterns...), Loose: NewLooseSet(l.Patterns...)}
	}
	return out
}

func indexEntries() map[string]int {
	idx := make(map[string]int, len(entries))
	for i, e := range entries {
		idx[e.Key] = i
	}
	return idx
}

// Entries returns the compiled leaf table in discovery order
func Entries() []Entry {
	return entries
}

// Lookup returns the entry for a leaf key
func Lookup(key string) (Entry, bool) {
	i, ok := byKey[key]
	if !ok {
		return Entry{}, false
	}
	return entries[i], true
}

// For returns the compiled pattern set of a leaf key. Unknown keys yield an empty set.
func For(key string) *Set {
	e, ok := Lookup(key)
	if !ok {
		return NewSet()
	}
	return e.Set
}

// BySubcategory finds the entry for a subcategory label name
func BySubcategory(subcategory string) (Entry, bool) {
	for _, e := range entries {
		if e.Subcategory == subcategory {
			return e, true
		}
	}
	return Entry{}, false
}

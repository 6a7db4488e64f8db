package rules

import (
	"github.com/mikey/email-triage/internal/phrases"
	"github.com/mikey/email-triage/internal/taxonomy"
)

// paymentCues mark money movement in attachment mails
var paymentCues = []string{"payment", "paid", "remit", "check", "wire", "ach", "eft"}

// signals evaluates phrase sets against one routed text
type signals struct {
	text    string
	subject string
	in      Input
	cfg     Config
}

func (s *signals) count(set *phrases.Set) int { return set.Count(s.text) }

func (s *signals) leaf(key string) int { return phrases.For(key).Count(s.text) }

func (s *signals) has(terms []string) bool { return phrases.ContainsAny(s.text, terms) }

func (s *signals) dispute() int { return s.leaf(phrases.KeyDisputedPayment) }

func (s *signals) invoiceProof() int {
	hits := s.leaf(phrases.KeyInvoiceReceipt)
	if mentions := s.count(phrases.InvoiceMentions); mentions > 0 {
		if proof := s.count(phrases.InvoiceProof); proof > 0 {
			hits += mentions + proof
		}
	}
	return hits
}

func (s *signals) closure() int {
	return s.leaf(phrases.KeyClosureNotification) + s.leaf(phrases.KeyClosurePaymentDue)
}

func (s *signals) closureDue() bool {
	return s.leaf(phrases.KeyClosurePaymentDue) > 0 || s.has(phrases.ClosureDue)
}

func (s *signals) claimWithProof() int {
	claims := s.count(phrases.PaymentClaims)
	proof := s.count(phrases.PaymentProof)
	if claims == 0 || proof == 0 || s.count(phrases.ExternalProof) > 0 {
		return 0
	}
	return claims + proof
}

func (s *signals) details() int {
	return s.leaf(phrases.KeyPaymentDetails) + s.count(phrases.PaymentInquiry)
}

func (s *signals) claims() int {
	return s.leaf(phrases.KeyClaimsPaid) + s.count(phrases.PaymentClaims)
}

func (s *signals) hasProofTerms() bool {
	return s.count(phrases.PaymentProof) > 0 || s.count(phrases.InvoiceProof) > 0
}

// outcome is a check's verdict
type outcome struct {
	category    string
	subcategory string
	hits        int
}

// check is one entry of a routing cascade. Thread checks scale from base by
// the step per extra hit up to cap; regular checks use base.
type check struct {
	name string
	base float64
	cap  float64
	eval func(s *signals) (outcome, bool)
}

func hit(category, subcategory string, hits int) (outcome, bool) {
	return outcome{category: category, subcategory: subcategory, hits: hits}, hits > 0
}

var threadChecks = []check{
	{"thread_dispute", 0.95, 0.97, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.DisputedPayment, s.dispute())
	}},
	{"thread_invoice_proof", 0.92, 0.95, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.InvoiceReceipt, s.invoiceProof())
	}},
	{"thread_closure_payment_due", 0.92, 0.95, func(s *signals) (outcome, bool) {
		if !s.closureDue() {
			return outcome{}, false
		}
		return hit(taxonomy.ManualReview, taxonomy.ClosurePaymentDue, s.closure())
	}},
	{"thread_closure", 0.90, 0.95, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.ClosureNotification, s.closure())
	}},
	{"thread_complex_business", 0.94, 0.96, func(s *signals) (outcome, bool) {
		hits := s.count(phrases.Legal)
		if s.in.Analysis.MaxAmount() > s.cfg.LargeAmount {
			hits++
		}
		return hit(taxonomy.ManualReview, taxonomy.ComplexQueries, hits)
	}},
	{"thread_payment_confirmation", 0.93, 0.96, func(s *signals) (outcome, bool) {
		return hit(taxonomy.PaymentsClaim, taxonomy.PaymentConfirmation,
			s.claimWithProof()+s.leaf(phrases.KeyPaymentConfirmation))
	}},
	{"thread_payment_details", 0.90, 0.94, func(s *signals) (outcome, bool) {
		return hit(taxonomy.PaymentsClaim, taxonomy.PaymentDetailsReceived, s.details())
	}},
	{"thread_claims_paid", 0.91, 0.95, func(s *signals) (outcome, bool) {
		return hit(taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, s.claims())
	}},
	{"thread_invoice_request", 0.90, 0.94, func(s *signals) (outcome, bool) {
		if s.hasProofTerms() {
			return outcome{}, false
		}
		return hit(taxonomy.InvoicesRequest, taxonomy.RequestNoInfo,
			s.count(phrases.InvoiceMentions)+s.leaf(phrases.KeyRequestNoInfo))
	}},
	{"thread_ooo_contact", 0.92, 0.92, func(s *signals) (outcome, bool) {
		ooo := s.count(phrases.OutOfOffice)
		if ooo == 0 {
			return outcome{}, false
		}
		return hit(taxonomy.AutoReply, taxonomy.AlternateContact, min(ooo, s.count(phrases.OutOfOfficeContact)))
	}},
	{"thread_ooo_return", 0.90, 0.90, func(s *signals) (outcome, bool) {
		ooo := s.count(phrases.OutOfOffice)
		if ooo == 0 {
			return outcome{}, false
		}
		return hit(taxonomy.AutoReply, taxonomy.ReturnDate, min(ooo, s.count(phrases.ReturnDate)))
	}},
	{"thread_ooo", 0.89, 0.89, func(s *signals) (outcome, bool) {
		return hit(taxonomy.AutoReply, taxonomy.NoInfoAutoreply, s.count(phrases.OutOfOffice))
	}},
	{"thread_no_reply_notice", 0.88, 0.88, func(s *signals) (outcome, bool) {
		return hit(taxonomy.NoReply, taxonomy.SystemAlerts, s.count(phrases.NoReplyNotice))
	}},
	{"thread_contact_change", 0.91, 0.91, func(s *signals) (outcome, bool) {
		return hit(taxonomy.AutoReply, taxonomy.RedirectsUpdates, s.count(phrases.ContactChange))
	}},
}

var regularChecks = []check{
	{"dispute_phrases", 0.95, 0.95, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.DisputedPayment, s.dispute())
	}},
	{"invoice_proof", 0.92, 0.92, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.InvoiceReceipt, s.invoiceProof())
	}},
	{"closure_payment_due", 0.92, 0.92, func(s *signals) (outcome, bool) {
		if !s.closureDue() {
			return outcome{}, false
		}
		return hit(taxonomy.ManualReview, taxonomy.ClosurePaymentDue, s.closure())
	}},
	{"closure", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.ClosureNotification, s.closure())
	}},
	{"payment_proof", 0.93, 0.93, func(s *signals) (outcome, bool) {
		hits := s.leaf(phrases.KeyPaymentConfirmation) + s.claimWithProof()
		if tx := s.count(phrases.TransactionProof); tx > 0 && s.has([]string{"paid", "payment"}) {
			hits += tx
		}
		return hit(taxonomy.PaymentsClaim, taxonomy.PaymentConfirmation, hits)
	}},
	{"payment_details", 0.89, 0.89, func(s *signals) (outcome, bool) {
		return hit(taxonomy.PaymentsClaim, taxonomy.PaymentDetailsReceived, s.details())
	}},
	{"payment_claim", 0.93, 0.93, func(s *signals) (outcome, bool) {
		return hit(taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, s.claims())
	}},
	{"invoice_request", 0.93, 0.93, func(s *signals) (outcome, bool) {
		if s.hasProofTerms() {
			return outcome{}, false
		}
		return hit(taxonomy.InvoicesRequest, taxonomy.RequestNoInfo, s.leaf(phrases.KeyRequestNoInfo))
	}},
	{"survey", 0.90, 0.90, func(s *signals) (outcome, bool) {
		if s.has(phrases.BusinessTerms) {
			return outcome{}, false
		}
		return hit(taxonomy.AutoReply, taxonomy.Survey, s.leaf(phrases.KeySurvey))
	}},
	{"processing_error", 0.92, 0.92, func(s *signals) (outcome, bool) {
		return hit(taxonomy.NoReply, taxonomy.ProcessingErrors, s.leaf(phrases.KeyProcessingErrors))
	}},
	{"auto_reply_subject_contact", 0.93, 0.93, func(s *signals) (outcome, bool) {
		if !phrases.AutoReplySubject.Any(s.subject) {
			return outcome{}, false
		}
		return hit(taxonomy.AutoReply, taxonomy.AlternateContact, s.count(phrases.OutOfOfficeContact))
	}},
	{"auto_reply_subject_return", 0.91, 0.91, func(s *signals) (outcome, bool) {
		if !phrases.AutoReplySubject.Any(s.subject) {
			return outcome{}, false
		}
		return hit(taxonomy.AutoReply, taxonomy.ReturnDate, s.count(phrases.ReturnDate))
	}},
	{"auto_reply_subject", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.AutoReply, taxonomy.NoInfoAutoreply, phrases.AutoReplySubject.Count(s.subject))
	}},
	{"no_reply_notice", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.NoReply, taxonomy.SystemAlerts, s.count(phrases.NoReplyNotice))
	}},
	{"ticket_created", 0.88, 0.88, func(s *signals) (outcome, bool) {
		return hit(taxonomy.NoReply, taxonomy.TicketCreated, s.leaf(phrases.KeyTicketCreated))
	}},
	{"ticket_resolved", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.NoReply, taxonomy.TicketResolved, s.leaf(phrases.KeyTicketResolved))
	}},
	{"payment_plan", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.DisputedPayment, s.count(phrases.PaymentPlan))
	}},
	{"information_request", 0.90, 0.90, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.InquiryRedirection, s.count(phrases.InfoRequest))
	}},
	{"business_response", 0.92, 0.92, func(s *signals) (outcome, bool) {
		return hit(taxonomy.ManualReview, taxonomy.InquiryRedirection, s.count(phrases.BusinessResponse))
	}},
}

// senderChecks route mail from system mailboxes. Confidence comes from Config.
var senderChecks = []struct {
	name        string
	set         *phrases.Set
	subcategory string
}{
	{"system_sender_error", phrases.SenderErrors, taxonomy.ProcessingErrors},
	{"system_sender_resolved", phrases.SenderResolved, taxonomy.TicketResolved},
	{"system_sender_created", phrases.SenderCreated, taxonomy.TicketCreated},
	{"system_sender_open", phrases.SenderOpen, taxonomy.TicketOpen},
	{"system_sender_sales", phrases.SenderSales, taxonomy.SalesOffers},
}

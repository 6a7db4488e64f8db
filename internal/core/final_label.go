package core

import (
	"github.com/mikey/email-triage/internal/features"
	"github.com/mikey/email-triage/internal/taxonomy"
)

// Routing labels used by downstream filing
const (
	LabelManualReview        = "manual_review"
	LabelNoReplyWithInfo     = "no_reply_with_info"
	LabelNoReplyNoInfo       = "no_reply_no_info"
	LabelInvoiceRequest      = "invoice_request_no_info"
	LabelClaimsPaidNoProof   = "claims_paid_no_proof"
	LabelClaimsPaidWithProof = "claims_paid_with_proof"
	LabelAutoReplyWithInfo   = "auto_reply_with_info"
	LabelAutoReplyNoInfo     = "auto_reply_no_info"
	LabelUncategorized       = "uncategorized"
)

// FinalLabel maps a category edge and the extracted features to a routing label
func FinalLabel(category, subcategory string, analysis features.Analysis) string {
	switch category {
	case taxonomy.NoReply:
		if analysis.HasEntity(features.EntityAccount, features.EntityCase, features.EntityInvoice,
			features.EntityTransaction, features.EntityReference, features.EntityEmail, features.EntityPhone) {
			return LabelNoReplyWithInfo
		}
		return LabelNoReplyNoInfo
	case taxonomy.InvoicesRequest:
		return LabelInvoiceRequest
	case taxonomy.PaymentsClaim:
		if subcategory == taxonomy.ClaimsPaidNoInfo {
			return LabelClaimsPaidNoProof
		}
		return LabelClaimsPaidWithProof
	case taxonomy.AutoReply:
		if analysis.HasEntity(features.EntityEmail, features.EntityPhone) || analysis.HasKeyPhrase("contact") {
			return LabelAutoReplyWithInfo
		}
		return LabelAutoReplyNoInfo
	case taxonomy.Uncategorized:
		return LabelUncategorized
	default:
		return LabelManualReview
	}
}

package taxonomy

// Label names. Every name is unique across the whole tree.
const (
	Root = "Root (Inbox)"

	ManualReview    = "Manual Review"
	NoReply         = "No Reply (with/without info)"
	InvoicesRequest = "Invoices Request"
	PaymentsClaim   = "Payments Claim"
	AutoReply       = "Auto Reply (with/without info)"
	Uncategorized   = "Uncategorized"

	DisputesPayments    = "Disputes & Payments"
	DisputedPayment     = "Partial/Disputed Payment"
	InvoiceUpdates      = "Invoice Updates"
	InvoiceReceipt      = "Invoice Receipt"
	BusinessClosure     = "Business Closure"
	ClosureNotification = "Closure Notification"
	ClosurePaymentDue   = "Closure + Payment Due"
	Invoices            = "Invoices"
	ExternalSubmission  = "External Submission"
	InvoiceErrors       = "Invoice Errors (format mismatch)"
	InquiryRedirection  = "Inquiry/Redirection"
	ComplexQueries      = "Complex Queries"

	Notifications    = "Notifications"
	SalesOffers      = "Sales/Offers"
	SystemAlerts     = "System Alerts"
	ProcessingErrors = "Processing Errors"
	ClosureInfoOnly  = "Business Closure (Info only)"
	ThankYou         = "General (Thank You)"
	TicketsCases     = "Tickets/Cases"
	TicketCreated    = "Created"
	TicketResolved   = "Resolved"
	TicketOpen       = "Open"

	RequestNoInfo = "Request (No Info)"

	ClaimsPaidNoInfo       = "Claims Paid (No Info)"
	PaymentDetailsReceived = "Payment Details Received"
	PaymentConfirmation    = "Payment Confirmation"

	OutOfOffice      = "Out of Office"
	AlternateContact = "With Alternate Contact"
	NoInfoAutoreply  = "No Info/Autoreply"
	ReturnDate       = "Return Date Specified"
	Miscellaneous    = "Miscellaneous"
	Survey           = "Survey"
	RedirectsUpdates = "Redirects/Updates (property changes)"
)

type def struct {
	name     string
	desc     string
	children []def
}

func leaf(name, desc string) def {
	return def{name: name, desc: desc}
}

func group(name, desc string, children ...def) def {
	return def{name: name, desc: desc, children: children}
}

var hierarchy = group(Root, "Entry point for all emails",
	group(ManualReview, "Cases requiring human attention",
		group(DisputesPayments, "Payment disputes and partial payment cases",
			leaf(DisputedPayment, "Payment disputes"),
		),
		group(InvoiceUpdates, "Updates related to invoices",
			leaf(InvoiceReceipt, "Invoice proof provided"),
		),
		group(BusinessClosure, "Business closure related notifications",
			leaf(ClosureNotification, "General closure notices"),
			leaf(ClosurePaymentDue, "Closure with outstanding dues"),
		),
		group(Invoices, "Invoice related issues and submissions",
			leaf(ExternalSubmission, "Invoice issues from third parties"),
			leaf(InvoiceErrors, "Missing fields/invalid formats"),
		),
		leaf(InquiryRedirection, "Redirections and alternate contacts"),
		leaf(ComplexQueries, "Multiple topics requiring review"),
	),
	group(NoReply, "System-generated, marketing, informational mail",
		group(Notifications, "System and business notifications",
			leaf(SalesOffers, "Promotions and marketing"),
			leaf(SystemAlerts, "System notifications"),
			leaf(ProcessingErrors, "System failure notifications"),
			leaf(ClosureInfoOnly, "Closure announcements"),
			leaf(ThankYou, "Acknowledgments"),
		),
		group(TicketsCases, "Support ticket and case related notifications",
			leaf(TicketCreated, "New ticket notifications"),
			leaf(TicketResolved, "Closed ticket notifications"),
			leaf(TicketOpen, "Open ticket updates"),
		),
	),
	group(InvoicesRequest, "Requests for invoice information",
		leaf(RequestNoInfo, "Invoice request missing info"),
	),
	group(PaymentsClaim, "Claims related to payments",
		leaf(ClaimsPaidNoInfo, "Payment claims without proof"),
		leaf(PaymentDetailsReceived, "Payment details for manual check"),
		leaf(PaymentConfirmation, "Payment proof provided"),
	),
	group(AutoReply, "Automated responses",
		group(OutOfOffice, "Out of office notifications",
			leaf(AlternateContact, "OOO with alternative contact"),
			leaf(NoInfoAutoreply, "Generic OOO messages"),
			leaf(ReturnDate, "OOO with return date"),
		),
		group(Miscellaneous, "Other automated responses",
			leaf(Survey, "Feedback requests"),
			leaf(RedirectsUpdates, "Contact/property changes"),
		),
	),
	leaf(Uncategorized, "Flag for Review/Retraining"),
)

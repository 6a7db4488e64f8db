package phrases

// Cue groups used alongside the leaf table. Sets are in phrase notation;
// plain string slices are literal substrings of lowered text.
var (
	// PaymentProof marks a payment claim that carries evidence
	PaymentProof = NewSet(
		"attach", "attached", "attachment", "attachments", "enclosed", "proof", "receipt",
		"screenshot", "document", "see ... attached", "find ... attached", "see ... enclosed",
	)

	// InvoiceProof marks an invoice being provided rather than requested
	InvoiceProof = NewSet(
		"attach", "attached", "attachment", "attachments", "enclosed", "copy attached",
		"see ... attached", "find ... attached", "invoice attached",
	)

	// PaymentClaims are the threaded "we paid" cues
	PaymentClaims = NewSet(
		"has been paid", "already paid", "payment made", "check sent", "paid through",
		"payment completed", "payment sent", "check is being overnighted", "we paid",
		"have already been paid", "account has been paid in full", "paid in full",
		"payment was made", "payment is done", "we have paid", "settled",
	)

	// InvoiceMentions are the threaded invoice request cues
	InvoiceMentions = NewSet(
		"invoice copies", "send invoice", "provide invoice", "need invoice", "invoice request",
		"share invoice", "invoice documentation", "invoices", "copies of invoices",
		"past due invoices", "multiple invoices",
	)

	// ExternalProof refers to evidence held by the recipient
	ExternalProof = NewSet(
		"if you look at your own email", "you will see it was settled", "you sent an email confirming",
		"please consult your client", "check with your client", "you have the confirmation",
		"look at your records", "check your records",
	)

	// TransactionProof marks payment evidence by reference numbers
	TransactionProof = NewSet(
		"transaction number", "batch number", "reference number", "confirmation number",
		"transaction id", "payment reference", "transaction and batch", "paid via <word> transaction",
	)

	// OutOfOffice marks an absence reply
	OutOfOffice = NewSet(
		"out of office", "out of the office", "automatic reply", "auto-reply", "auto reply",
		"i am currently out", "i will be out", "away from ... desk", "limited access to ... email",
		"will be returning", "will return", "returning to the office", "on vacation", "on leave",
		"currently traveling", "at our convention", "i will be in meetings",
	)

	// OutOfOfficeContact marks an absence reply naming someone else
	OutOfOfficeContact = NewSet(
		"forward", "contact", "reach out", "alternate", "assistance", "replacement", "call me",
		"call my cell", "call my mobile", "if urgent",
	)

	// ReturnDate marks an absence reply naming a return
	ReturnDate = NewSet(
		"return", "returning", "back on", "until", "will be back", "available after",
		"monday", "tuesday", "wednesday", "thursday", "friday", "<date>", "when i return",
	)

	// Legal marks attorney or counsel correspondence
	Legal = NewSet(
		"attorney", "law firm", "attorney at law", "esq.", "law office", "legal counsel",
		"law llp", "attorney representing", "legal representation", "counsel for",
	)

	// NoReplyNotice marks content sent from an unmonitored mailbox
	NoReplyNotice = NewSet(
		"this is a no-reply email", "do not reply to this email", "please do not reply",
		"this mailbox is not monitored", "this is an automated message", "system generated",
		"donotreply", "do-not-reply", "noreply", "no-reply",
	)

	// ContactChange marks a redirection to another person or channel
	ContactChange = NewSet(
		"no longer with", "please contact", "direct inquiries to", "no longer employed",
		"starting may", "no longer be accepted", "now using", "please submit all future",
		"please forward", "please direct all future",
	)

	// PaymentInquiry marks a question about payment status or routing
	PaymentInquiry = NewSet(
		"waiting to receive ... payment", "waiting for payment", "should this be paid",
		"how should we pay", "where to send payment", "when will payment", "hope to have resolved",
		"payment delayed",
	)

	// BusinessResponse marks a counterparty asking for direction
	BusinessResponse = NewSet(
		"insufficient data provided", "i need guidance", "please advise what is needed",
		"please ask", "there is insufficient data",
	)

	// PaymentPlan marks negotiation of a partial or staged payment
	PaymentPlan = NewSet(
		"payment plan", "scheduled payments", "monthly payment", "payment schedule",
		"able to make this payment", "budget constraints", "set up a payment", "we can set up",
	)

	// InfoRequest marks a request for account history
	InfoRequest = NewSet(
		"what invoices were not paid", "let me know what invoices", "research payment history",
		"which invoices", "what invoices",
	)

	// AutoReplySubject marks an automatic reply by subject line
	AutoReplySubject = NewSet(
		"automatic reply", "auto-reply", "auto reply", "autoreply", "out of office",
	)

	// SenderErrors routes system senders to Processing Errors
	SenderErrors = NewSet(
		"error", "failed", "failure", "undeliverable", "rejected", "bounced", "cannot be processed",
	)

	// SenderResolved, SenderCreated and SenderOpen route system senders to ticket states
	SenderResolved = NewSet("resolved", "closed", "solved", "completed")
	SenderCreated  = NewSet("ticket created", "case created", "new ticket", "opened", "has been created", "ticket #", "case #")
	SenderOpen     = NewSet("pending", "open", "in progress", "awaiting")

	// SenderSales routes system senders to Sales/Offers
	SenderSales = NewSet(
		"offer", "promotion", "promo", "discount", "sale", "newsletter", "deal", "save",
	)
)

// Literal term lists
var (
	// BusinessTerms is the strong business vocabulary used for conflict
	// resolution and the fallback bands
	BusinessTerms = []string{"payment", "invoice", "dispute", "collection", "debt", "billing"}

	// ProofIndicators separate Payment Confirmation from Claims Paid
	ProofIndicators = []string{"attached", "proof", "receipt", "transaction", "check number", "eft#", "wire", "batch"}

	// ProvidingIndicators and RequestingIndicators separate Invoice Receipt from Request
	ProvidingIndicators  = []string{"attached", "here is", "copy attached", "proof"}
	RequestingIndicators = []string{"send me", "provide", "need", "share"}

	// ClosureDue marks a closure notice that still mentions money owed
	ClosureDue = []string{"payment", "due", "outstanding", "balance", "owe", "owed", "invoice"}

	// SystemSenders are mailbox fragments of unattended senders
	SystemSenders = []string{
		"noreply", "no-reply", "no_reply", "donotreply", "do-not-reply", "do_not_reply",
		"mailer-daemon", "postmaster", "notifications@", "notification@", "alerts@",
		"system@", "bounce", "automated@", "support@", "helpdesk@",
	}
)

package preprocess

import "regexp"

// threadSeparators split the current reply from quoted history. Order matters:
// the first separator that matches decides the split.
var threadSeparators = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^From: .+\n^Sent: .+\n^To: .+\n(?:^Cc: .+\n)?^Subject: .+$`),
	regexp.MustCompile(`(?i)From:\s*ABCCollectionsTeamD@abc-amega\.com`),
	regexp.MustCompile(`(?i)-----Original Message-----`),
	regexp.MustCompile(`(?i)Dear Accounts Payable:\s*Your Company has been referred to us`),
	regexp.MustCompile(`(?i)-{5,}\s*Forwarded message\s*-{5,}`),
	regexp.MustCompile(`(?i)From:\s*[^\n]+@[^\n]+\s*Sent:\s*[^\n]+\s*To:\s*[^\n]+\s*Subject:`),
	regexp.MustCompile(`(?i)Od:\s*[^\n]+@[^\n]+\s*Wysłano:\s*[^\n]+\s*Do:\s*[^\n]+\s*Temat:`),
	regexp.MustCompile(`(?i)From:\s*[^\n]+\s*Sent:\s*\w+,\s+\w+\s+\d{1,2},\s+\d{4}`),
	regexp.MustCompile(`(?i)External email\.\s*Think before clicking`),
	regexp.MustCompile(`(?i)Think before clicking links or opening attachments`),
	// weaker reply markers, only consulted when nothing above matched
	regexp.MustCompile(`(?im)^On\s+.{5,160}\bwrote:\s*$`),
	regexp.MustCompile(`(?m)^_{10,}\s*$`),
	regexp.MustCompile(`(?m)^>.*$`),
}

// threadIndicators only count toward thread detection
var threadIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?is)From:.*?Sent:.*?To:`),
	regexp.MustCompile(`(?i)From:.*ABCCollectionsTeamD`),
	regexp.MustCompile(`(?is)On\s+\w+.*?wrote:`),
	regexp.MustCompile(`(?is)Dear.*?Your Company has been referred to us`),
	regexp.MustCompile(`(?i)External email\.\s*Think before clicking`),
}

// noisePatterns are removed from the normalized body
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[?EXTERNAL\]?\s*:?\s*This (?:e-?mail|message) (?:originated|originates|came) from outside (?:of )?(?:the|your) organi[sz]ation\.?`),
	regexp.MustCompile(`(?i)CAUTION\s*:\s*This (?:e-?mail|message) originated from outside[^.]*\.`),
	regexp.MustCompile(`(?i)Do not click links or open attachments unless you recognize the sender and know the content is safe\.?`),
	regexp.MustCompile(`(?i)You don'?t often get email from \S+\.?`),
	regexp.MustCompile(`(?i)Learn why this is important\.?`),
	regexp.MustCompile(`(?i)This is the first time you(?:'ve| have) received an email from this sender\.?`),
	regexp.MustCompile(`(?i)External email\.\s*Think before clicking(?: links or opening attachments)?\.?`),
	regexp.MustCompile(`(?is)CONFIDENTIALITY NOTICE\s*:.*$`),
	regexp.MustCompile(`(?is)This (?:e-?mail|message)(?: and any attachments)? (?:is|are|may be) (?:confidential|intended solely).*$`),
	regexp.MustCompile(`(?i)Please consider the environment before printing this e-?mail\.?`),
	regexp.MustCompile(`(?i)\bunsubscribe\b[^.]*\.?`),
	regexp.MustCompile(`(?i)\bSent from my (?:iPhone|iPad|Android|mobile device|Samsung|BlackBerry)\b[^.]*`),
	regexp.MustCompile(`(?i)\bGet Outlook for (?:iOS|Android)\b`),
}

// bannerPatterns are the subset still stripped when the cleaned text is too short
var bannerPatterns = []*regexp.Regexp{
	noisePatterns[0],
	noisePatterns[1],
	noisePatterns[6],
}

var (
	replyLine    = regexp.MustCompile(`(?i)^On\s+.{5,160}\bwrote:\s*$`)
	sentFromLine = regexp.MustCompile(`(?i)\bsent from my\b`)
	safetyLine   = regexp.MustCompile(`(?i)(?:this is the first time.*?sender|exercise caution when clicking|some people who received this message don'?t often get email|learn why this is important)`)
	cautionLine  = regexp.MustCompile(`(?i)^(?:caution|external)\s*:`)

	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^\)]*\)`)
	formatRun    = regexp.MustCompile("[*_~`]{2,}")
	whitespace   = regexp.MustCompile(`\s+`)
	invisible    = regexp.MustCompile(`[\x{200b}-\x{200f}\x{feff}]`)

	subjectPrefix = regexp.MustCompile(`(?i)^\s*(?:(?:re|fwd?|fw|odp|aw|sv)\s*:|\[external\])\s*`)
)

// farewells end the current message when they close a line
var farewells = []string{
	"thanks", "thank you", "thanky you", "regards", "best regards", "many thanks",
	"cheers", "have a good day", "have a nice day", "have a great day",
	"have a wonderful day", "have a pleasant day", "kind regards", "warm regards",
	"may regards", "sincerely", "yours sincerely", "yours truly", "yours faithfully",
	"take care", "stay safe", "with regards", "with best wishes", "respectfully",
	"thanks again", "thank you very much",
}

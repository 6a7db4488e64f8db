// Package preprocess turns raw email subject and body text into the
// normalized forms consumed by the classifiers.
package preprocess

import (
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	// minReplyLength is the shortest text accepted before a thread boundary
	minReplyLength = 30
	// minCleanLength triggers minimal cleaning when full cleaning strips too much
	minCleanLength = 50
)

// ProcessedEmail is the output of preprocessing
type ProcessedEmail struct {
	NormalizedText   string        `json:"normalized_text"`
	CleanedSubject   string        `json:"cleaned_subject"`
	CurrentReply     string        `json:"current_reply"`
	OriginalBody     string        `json:"-"`
	HasThread        bool          `json:"has_thread"`
	ThreadCount      int           `json:"thread_indicator_count"`
	CompressionRatio float64       `json:"compression_ratio"`
	RedactionCount   int           `json:"redaction_count"`
	ProcessingTime   time.Duration `json:"processing_time"`
	OK               bool          `json:"ok"`
}

// Normalizer cleans email text
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Process cleans a subject and body. It never fails: on an internal error
// it returns the raw input with OK set to false.
func (n *Normalizer) Process(subject, body string) (out ProcessedEmail) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Preprocessing failed, using raw text", zap.Any("panic", r))
			out = ProcessedEmail{
				NormalizedText: Normalize(body),
				CleanedSubject: subject,
				CurrentReply:   body,
				OriginalBody:   body,
				OK:             false,
			}
		}
		out.ProcessingTime = time.Since(start)
	}()

	text := strings.ReplaceAll(body, "\r\n", "\n")
	if LooksLikeHTML(text) {
		text = HTMLToText(text)
	}

	hasThread, count := DetectThread(text)
	cleaned, redactions := n.clean(text)
	if len(cleaned) < minCleanLength {
		cleaned = minimalClean(text)
	}

	out = ProcessedEmail{
		NormalizedText: cleaned,
		CleanedSubject: CleanSubject(subject),
		CurrentReply:   Normalize(ExtractCurrentReply(text)),
		OriginalBody:   body,
		HasThread:      hasThread,
		ThreadCount:    count,
		RedactionCount: redactions,
		OK:             true,
	}
	if len(body) > 0 {
		out.CompressionRatio = float64(len(cleaned)) / float64(len(body))
	}

	n.logger.Debug("Preprocessed email",
		zap.Int("original_length", len(body)),
		zap.Int("cleaned_length", len(cleaned)),
		zap.Bool("has_thread", hasThread),
		zap.Int("redactions", redactions))

	return out
}

func (n *Normalizer) clean(text string) (string, int) {
	lines, redactions := cleanLines(text)
	text = ExtractCurrentReply(lines)
	text = Normalize(text)
	for _, re := range noisePatterns {
		matches := re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		redactions += len(matches)
		text = re.ReplaceAllString(text, " ")
	}
	text = markdownLink.ReplaceAllString(text, "$1")
	text = formatRun.ReplaceAllString(text, "")
	return collapse(text), redactions
}

// cleanLines drops safety banners and signatures line by line, stopping at
// the first reply header or closing farewell
func cleanLines(text string) (string, int) {
	var kept []string
	skipped := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if replyLine.MatchString(line) {
			break
		}
		if safetyLine.MatchString(line) || cautionLine.MatchString(line) {
			skipped++
			continue
		}
		if loc := sentFromLine.FindStringIndex(line); loc != nil {
			line = strings.TrimSpace(line[:loc[0]])
			if line == "" {
				continue
			}
		}
		if head, ok := cutFarewell(line); ok {
			if head != "" {
				kept = append(kept, head)
			}
			break
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n"), skipped
}

// cutFarewell reports whether the last words of a line are a farewell and
// returns what precedes them
func cutFarewell(line string) (string, bool) {
	words := strings.Fields(line)
	for k := 3; k >= 1; k-- {
		if len(words) < k {
			continue
		}
		tail := strings.ToLower(strings.Join(words[len(words)-k:], " "))
		tail = strings.TrimFunc(tail, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSpace(r) })
		if isFarewell(tail) {
			return strings.Join(words[:len(words)-k], " "), true
		}
	}
	return "", false
}

func isFarewell(s string) bool {
	for _, f := range farewells {
		if s == f {
			return true
		}
	}
	return false
}

// ExtractCurrentReply returns the text before the first thread separator.
// A separator with fewer than 30 characters before it is ignored and the
// whole text is returned.
func ExtractCurrentReply(text string) string {
	for _, re := range threadSeparators {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		before := strings.TrimSpace(text[:loc[0]])
		if len(before) < minReplyLength {
			return text
		}
		return before
	}
	return text
}

// DetectThread reports whether the text carries quoted history and how many
// distinct thread patterns were seen
func DetectThread(text string) (bool, int) {
	count := 0
	for _, re := range threadSeparators {
		if re.MatchString(text) {
			count++
		}
	}
	for _, re := range threadIndicators {
		if re.MatchString(text) {
			count++
		}
	}
	return count > 0, count
}

// Normalize composes Unicode, strips invisible characters and collapses whitespace
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = invisible.ReplaceAllString(text, "")
	text = norm.NFC.String(text)
	return collapse(text)
}

// CleanSubject strips one reply or forward prefix and collapses whitespace
func CleanSubject(subject string) string {
	subject = subjectPrefix.ReplaceAllString(subject, "")
	return collapse(subject)
}

func minimalClean(text string) string {
	text = Normalize(text)
	for _, re := range bannerPatterns {
		text = re.ReplaceAllString(text, " ")
	}
	return collapse(text)
}

func collapse(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

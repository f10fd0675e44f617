package assistant

import (
	"regexp"
	"strings"

	"github.com/vigiahub/assistant-backend/internal/domain"
)

// ExtractedInfo holds self-introduced user facts found in conversation text.
type ExtractedInfo struct {
	UserName    string
	UserCompany string
	Topics      []string
}

// SessionContext is the request-lifetime memory aggregate: the full current
// session, a bounded slice of the user's prior sessions, and the facts
// extracted from both.
type SessionContext struct {
	SessionHistory []domain.ConversationTurn
	UserHistory    []domain.ConversationTurn
	Extracted      ExtractedInfo
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)meu nome (?:é|e) +([\p{L}][\p{L}'. -]{1,60})`),
	regexp.MustCompile(`(?i)\bme chamo +([\p{L}][\p{L}'. -]{1,60})`),
	regexp.MustCompile(`(?i)\bmy name is +([\p{L}][\p{L}'. -]{1,60})`),
	regexp.MustCompile(`(?i)\bi(?:'| a)m called +([\p{L}][\p{L}'. -]{1,60})`),
}

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btrabalho n[ao] +([\p{L}0-9][\p{L}0-9&'. -]{1,60})`),
	regexp.MustCompile(`(?i)minha empresa (?:é|e|se chama) +([\p{L}0-9][\p{L}0-9&'. -]{1,60})`),
	regexp.MustCompile(`(?i)\bi work (?:at|for) +([\p{L}0-9][\p{L}0-9&'. -]{1,60})`),
	regexp.MustCompile(`(?i)\bmy company is +([\p{L}0-9][\p{L}0-9&'. -]{1,60})`),
}

var topicPattern = regexp.MustCompile(`(?i)(interessad|quero saber|gostaria de saber|me fale sobre|\binterested in\b|\btell me about\b|\bi want to know\b)`)

// ExtractInfo scans already-fetched turns for first-person introductions and
// topic-interest mentions. First name/company match wins; topic-flagged
// message bodies accumulate. Pure function, no I/O.
func ExtractInfo(turns []domain.ConversationTurn) ExtractedInfo {
	var out ExtractedInfo
	for _, turn := range turns {
		if turn.Role != domain.RoleUser {
			continue
		}
		msg := turn.Message
		if out.UserName == "" {
			out.UserName = firstCapture(namePatterns, msg)
		}
		if out.UserCompany == "" {
			out.UserCompany = firstCapture(companyPatterns, msg)
		}
		if topicPattern.MatchString(msg) {
			out.Topics = append(out.Topics, strings.TrimSpace(msg))
		}
	}
	return out
}

func firstCapture(patterns []*regexp.Regexp, msg string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(msg)
		if len(m) < 2 {
			continue
		}
		got := strings.TrimSpace(m[1])
		// Cut at sentence punctuation so "my name is Ana. anyway..." keeps "Ana".
		if idx := strings.IndexAny(got, ".,;!?\n"); idx > 0 {
			got = strings.TrimSpace(got[:idx])
		}
		if got != "" {
			return got
		}
	}
	return ""
}

package assistant

import "regexp"

// Category is one topical tag of a question. A question may carry several;
// CategoryGeneral is the fallback when nothing else matches.
type Category string

const (
	CategoryPostsToday     Category = "posts_today"
	CategoryPostsYesterday Category = "posts_yesterday"
	CategoryHistory        Category = "history"
	CategoryScheduled      Category = "scheduled"
	CategoryMentions       Category = "mentions"
	CategoryVideos         Category = "videos"
	CategoryComments       Category = "comments"
	CategorySentiment      Category = "sentiment"
	CategoryStatistics     Category = "statistics"
	CategoryGeneral        Category = "general"
)

// Check order is fixed; the result preserves it.
var categoryChecks = []struct {
	cat Category
	re  *regexp.Regexp
}{
	{CategoryPostsToday, regexp.MustCompile(`(?i)(\bhoje\b|\btoday\b)`)},
	{CategoryPostsYesterday, regexp.MustCompile(`(?i)(\bontem\b|\byesterday\b)`)},
	{CategoryHistory, regexp.MustCompile(`(?i)(hist[óo]rico|\bhistory\b|conversamos|falamos|anteriormente|conversa anterior|conversas anteriores|\bearlier\b|\bpreviously\b|\bprevious conversation)`)},
	{CategoryScheduled, regexp.MustCompile(`(?i)(agendad|programad|\bscheduled\b|\bagenda\b)`)},
	{CategoryMentions, regexp.MustCompile(`(?i)(menç[ãa]o|menç[õo]es|\bmencao\b|\bmencoes\b|mencionad|\bmention)`)},
	{CategoryVideos, regexp.MustCompile(`(?i)(v[íi]deo|\bvideo)`)},
	{CategoryComments, regexp.MustCompile(`(?i)(coment[áa]rio|\bcomment)`)},
	{CategorySentiment, regexp.MustCompile(`(?i)(sentimento|\bsentiment\b|positiv|negativ)`)},
	{CategoryStatistics, regexp.MustCompile(`(?i)(estat[íi]stica|\bstatistic|m[ée]trica|\bmetric|n[úu]mero|\bnumber of\b|\bquantos\b|\bquantas\b|\bhow many\b|\btotal\b|\bresumo\b|\bsummary\b)`)},
}

// Categorize maps free text to its category tags. Pure and total: it never
// fails and always returns at least one tag.
func Categorize(text string) []Category {
	var out []Category
	for _, check := range categoryChecks {
		if check.re.MatchString(text) {
			out = append(out, check.cat)
		}
	}
	if len(out) == 0 {
		out = []Category{CategoryGeneral}
	}
	return out
}

func hasCategory(cats []Category, want Category) bool {
	for _, c := range cats {
		if c == want {
			return true
		}
	}
	return false
}

// onlyGeneral reports whether the tag set is exactly the fallback.
func onlyGeneral(cats []Category) bool {
	return len(cats) == 1 && cats[0] == CategoryGeneral
}

func categoryStrings(cats []Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

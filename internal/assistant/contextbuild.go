package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vigiahub/assistant-backend/internal/domain"
)

// ContextInput carries everything the assembler may render. Nil/empty fields
// mean "omit the section"; for Stats and the two day listings nil specifically
// means the fetch was unavailable, which must not render as an empty section.
type ContextInput struct {
	Language Language
	Now      time.Time
	Location *time.Location
	Timezone string

	CurrentPage string
	VisibleData map[string]any

	Memory SessionContext

	Stats *domain.ProjectStats

	TodayPosts     *DayPosts
	YesterdayPosts *DayPosts

	Retrieval []domain.RetrievalResult
}

// BuildContext assembles the grounding block in a fixed section order,
// regardless of which sections have data. The order is load-bearing: the
// system prompt's authority rules reference these sections by name.
func BuildContext(in ContextInput) string {
	ls := labelsFor(in.Language)
	var b strings.Builder

	// 1. Wall clock in the caller's timezone.
	local := in.Now
	if in.Location != nil {
		local = in.Now.In(in.Location)
	}
	fmt.Fprintf(&b, "%s: %s (%s)\n", ls.currentTime, local.Format("2006-01-02 15:04"), in.Timezone)

	// 2. UI page.
	if page := strings.TrimSpace(in.CurrentPage); page != "" {
		fmt.Fprintf(&b, "%s: %s\n", ls.currentPage, page)
	}

	// 3. UI-visible data.
	if len(in.VisibleData) > 0 {
		if raw, err := json.Marshal(in.VisibleData); err == nil {
			fmt.Fprintf(&b, "%s: %s\n", ls.visibleData, string(raw))
		}
	}

	// 4. Extracted identity facts.
	writeUserInfo(&b, ls, in.Memory.Extracted)

	// 5. Current session transcript.
	writeTranscript(&b, ls, in.Memory.SessionHistory)

	// 6. Cross-session history, compressed to the 3 most recent days.
	writePriorHistory(&b, ls, in.Memory.UserHistory, in.Location)

	// 7. Authoritative metrics.
	writeStats(&b, ls, in.Stats)

	// 8. Day-scoped post listings.
	writeDayPosts(&b, ls.postsToday, ls, in.TodayPosts)
	writeDayPosts(&b, ls.postsYesterday, ls, in.YesterdayPosts)

	// 9. Grouped retrieval results.
	writeRetrieval(&b, ls, in.Retrieval)

	return strings.TrimRight(b.String(), "\n")
}

func writeUserInfo(b *strings.Builder, ls labelSet, info ExtractedInfo) {
	if info.UserName == "" && info.UserCompany == "" && len(info.Topics) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", ls.userInfo)
	if info.UserName != "" {
		fmt.Fprintf(b, "- %s: %s\n", ls.userName, info.UserName)
	}
	if info.UserCompany != "" {
		fmt.Fprintf(b, "- %s: %s\n", ls.userCompany, info.UserCompany)
	}
	for _, topic := range info.Topics {
		fmt.Fprintf(b, "- %s: %s\n", ls.userTopics, topic)
	}
}

func writeTranscript(b *strings.Builder, ls labelSet, turns []domain.ConversationTurn) {
	if len(turns) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", ls.sessionHistory)
	for _, turn := range turns {
		role := ls.roleUser
		if turn.Role == domain.RoleAssistant {
			role = ls.roleAssistant
		}
		fmt.Fprintf(b, "%s: %s\n", role, turn.Message)
	}
}

// writePriorHistory renders a count-only summary of the user's previous
// sessions: the 3 most recent distinct calendar days. UserHistory arrives
// newest-first, which makes first-seen day order already the wanted one.
func writePriorHistory(b *strings.Builder, ls labelSet, turns []domain.ConversationTurn, loc *time.Location) {
	if len(turns) == 0 {
		return
	}
	if loc == nil {
		loc = time.UTC
	}
	type dayCount struct {
		day   string
		count int
	}
	var days []dayCount
	index := map[string]int{}
	for _, turn := range turns {
		day := turn.CreatedAt.In(loc).Format("2006-01-02")
		if i, ok := index[day]; ok {
			days[i].count++
			continue
		}
		index[day] = len(days)
		days = append(days, dayCount{day: day, count: 1})
	}
	if len(days) > 3 {
		days = days[:3]
	}
	fmt.Fprintf(b, "\n%s:\n", ls.priorHistory)
	for _, d := range days {
		b.WriteString("- ")
		fmt.Fprintf(b, ls.priorDayLine, d.day, d.count)
		b.WriteByte('\n')
	}
}

func writeStats(b *strings.Builder, ls labelSet, stats *domain.ProjectStats) {
	if stats == nil {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", ls.metrics)
	fmt.Fprintf(b, "- %s: %d\n", ls.totalMentions, stats.TotalMentions)
	fmt.Fprintf(b, "- %s: %d\n", ls.postedMentions, stats.PostedMentions)
	fmt.Fprintf(b, "- %s: %d\n", ls.channelCount, stats.ChannelCount)
	fmt.Fprintf(b, "- %s: %d\n", ls.videoCount, stats.VideoCount)
	fmt.Fprintf(b, "- %s: %d\n", ls.scheduledMessages, stats.ScheduledMessages)
	fmt.Fprintf(b, "- %s: %d\n", ls.mentionsToday, stats.MentionsToday)
	if len(stats.TopChannels) > 0 {
		names := make([]string, 0, len(stats.TopChannels))
		for _, ch := range stats.TopChannels {
			names = append(names, fmt.Sprintf("%s (%d)", ch.Name, ch.Count))
		}
		fmt.Fprintf(b, "- %s: %s\n", ls.topChannels, strings.Join(names, ", "))
	}
	if len(stats.Keywords) > 0 {
		fmt.Fprintf(b, "- %s: %s\n", ls.keywords, strings.Join(stats.Keywords, ", "))
	}
}

func writeDayPosts(b *strings.Builder, header string, ls labelSet, day *DayPosts) {
	if day == nil {
		// Unavailable: omitted, never rendered as an empty day.
		return
	}
	fmt.Fprintf(b, "\n%s:\n", header)
	if day.Empty() {
		b.WriteString(ls.noPosts + "\n")
		return
	}
	writePostBucket(b, ls.postedBucket, day.Posted)
	writePostBucket(b, ls.scheduledBucket, day.Scheduled)
}

func writePostBucket(b *strings.Builder, header string, rows []domain.ScheduledPost) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", header)
	for _, row := range rows {
		when := "-"
		if t := row.EffectiveTime(); t != nil {
			when = t.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(b, "- [%s] %s", when, strings.TrimSpace(row.Message))
		if row.VideoTitle != nil && strings.TrimSpace(*row.VideoTitle) != "" {
			fmt.Fprintf(b, " (%s", strings.TrimSpace(*row.VideoTitle))
			if row.VideoURL != nil && strings.TrimSpace(*row.VideoURL) != "" {
				fmt.Fprintf(b, " - %s", strings.TrimSpace(*row.VideoURL))
			}
			b.WriteString(")")
		}
		b.WriteByte('\n')
	}
}

// writeRetrieval groups results by translated source label. Group order is
// first appearance; within a group the search's similarity order is kept.
func writeRetrieval(b *strings.Builder, ls labelSet, results []domain.RetrievalResult) {
	if len(results) == 0 {
		return
	}
	var order []string
	groups := map[string][]domain.RetrievalResult{}
	for _, res := range results {
		label := ls.sourceLabels[res.Source]
		if label == "" {
			label = res.Source
		}
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], res)
	}
	fmt.Fprintf(b, "\n%s:\n", ls.searchResults)
	for _, label := range order {
		fmt.Fprintf(b, "%s:\n", label)
		for _, res := range groups[label] {
			fmt.Fprintf(b, "- %s\n", strings.TrimSpace(res.Content))
		}
	}
}

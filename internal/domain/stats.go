package domain

// ChannelCount is one entry of the top-channels ranking.
type ChannelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProjectStats is the authoritative counter snapshot for a project, produced by
// a single aggregate query. A nil *ProjectStats means "unavailable"; zero
// counters are legitimate values and must never be fabricated on failure.
type ProjectStats struct {
	TotalMentions     int            `json:"total_mentions"`
	PostedMentions    int            `json:"posted_mentions"`
	ChannelCount      int            `json:"channel_count"`
	VideoCount        int            `json:"video_count"`
	ScheduledMessages int            `json:"scheduled_messages"`
	MentionsToday     int            `json:"mentions_today"`
	TopChannels       []ChannelCount `json:"top_channels"`
	Keywords          []string       `json:"keywords"`
}

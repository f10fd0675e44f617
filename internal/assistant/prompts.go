package assistant

// labelSet holds every user-visible string of one locale. Sections of the
// assembled context always render in the detected language.
type labelSet struct {
	currentTime     string
	currentPage     string
	visibleData     string
	userInfo        string
	userName        string
	userCompany     string
	userTopics      string
	sessionHistory  string
	priorHistory    string
	priorDayLine    string // "%s: %d"
	metrics         string
	postsToday      string
	postsYesterday  string
	postedBucket    string
	scheduledBucket string
	noPosts         string
	searchResults   string

	totalMentions     string
	postedMentions    string
	channelCount      string
	videoCount        string
	scheduledMessages string
	mentionsToday     string
	topChannels       string
	keywords          string

	roleUser      string
	roleAssistant string

	sourceLabels map[string]string
}

var labels = map[Language]labelSet{
	LangPortuguese: {
		currentTime:     "Data e hora atuais",
		currentPage:     "Página atual",
		visibleData:     "Dados visíveis na tela",
		userInfo:        "Informações do usuário",
		userName:        "Nome",
		userCompany:     "Empresa",
		userTopics:      "Tópicos de interesse",
		sessionHistory:  "Conversa atual",
		priorHistory:    "Histórico de conversas anteriores",
		priorDayLine:    "%s: %d mensagens",
		metrics:         "Métricas do projeto (fonte oficial)",
		postsToday:      "Postagens de hoje",
		postsYesterday:  "Postagens de ontem",
		postedBucket:    "Publicadas",
		scheduledBucket: "Agendadas",
		noPosts:         "Nenhuma postagem encontrada.",
		searchResults:   "Resultados de busca relevantes",

		totalMentions:     "Total de menções",
		postedMentions:    "Menções publicadas",
		channelCount:      "Canais monitorados",
		videoCount:        "Vídeos monitorados",
		scheduledMessages: "Mensagens agendadas",
		mentionsToday:     "Menções de hoje",
		topChannels:       "Principais canais",
		keywords:          "Palavras-chave",

		roleUser:      "Usuário",
		roleAssistant: "Assistente",

		sourceLabels: map[string]string{
			"conversation_turn": "Conversas",
			"mention":           "Menções",
			"scheduled_post":    "Postagens",
			"video":             "Vídeos",
			"comment":           "Comentários",
		},
	},
	LangEnglish: {
		currentTime:     "Current date and time",
		currentPage:     "Current page",
		visibleData:     "Data visible on screen",
		userInfo:        "User information",
		userName:        "Name",
		userCompany:     "Company",
		userTopics:      "Topics of interest",
		sessionHistory:  "Current conversation",
		priorHistory:    "Previous conversation history",
		priorDayLine:    "%s: %d messages",
		metrics:         "Project metrics (official source)",
		postsToday:      "Today's posts",
		postsYesterday:  "Yesterday's posts",
		postedBucket:    "Published",
		scheduledBucket: "Scheduled",
		noPosts:         "No posts found.",
		searchResults:   "Relevant search results",

		totalMentions:     "Total mentions",
		postedMentions:    "Posted mentions",
		channelCount:      "Monitored channels",
		videoCount:        "Monitored videos",
		scheduledMessages: "Scheduled messages",
		mentionsToday:     "Mentions today",
		topChannels:       "Top channels",
		keywords:          "Keywords",

		roleUser:      "User",
		roleAssistant: "Assistant",

		sourceLabels: map[string]string{
			"conversation_turn": "Conversations",
			"mention":           "Mentions",
			"scheduled_post":    "Posts",
			"video":             "Videos",
			"comment":           "Comments",
		},
	},
}

func labelsFor(lang Language) labelSet {
	if ls, ok := labels[lang]; ok {
		return ls
	}
	return labels[LangPortuguese]
}

// SystemPrompt returns the grounding rules prefixed to the assembled context.
// The rules pin the model to the official metrics section for quantity
// questions and to the day listing for day-scoped questions, in that order of
// authority over search results.
func SystemPrompt(lang Language) string {
	if lang == LangEnglish {
		return `You are the project assistant for a social mention monitoring tool. Answer using ONLY the context below.
Rules:
- For questions about quantities or totals, use the "Project metrics (official source)" section. Never count search results to answer a quantity question.
- For questions about a specific day's posts, use the "Today's posts" / "Yesterday's posts" sections, not the search results.
- If the context does not contain the answer, say you do not have that information. Do not invent data.
- Answer in English, briefly and directly.`
	}
	return `Você é o assistente do projeto em uma ferramenta de monitoramento de menções. Responda usando SOMENTE o contexto abaixo.
Regras:
- Para perguntas sobre quantidades ou totais, use a seção "Métricas do projeto (fonte oficial)". Nunca conte resultados de busca para responder quantidades.
- Para perguntas sobre as postagens de um dia específico, use as seções "Postagens de hoje" / "Postagens de ontem", não os resultados de busca.
- Se o contexto não contiver a resposta, diga que não tem essa informação. Não invente dados.
- Responda em português, de forma breve e direta.`
}

// FallbackMessage is the canned apology substituted for the assistant's turn
// when generation fails. The exact string is part of the handler contract.
func FallbackMessage(lang Language) string {
	if lang == LangEnglish {
		return "Sorry, I couldn't process your question right now. Please try again in a moment."
	}
	return "Desculpe, não consegui processar sua pergunta agora. Tente novamente em instantes."
}

package assistant

import "regexp"

// Language is the detected locale of a question. Portuguese is the product's
// primary locale.
type Language string

const (
	LangPortuguese Language = "pt"
	LangEnglish    Language = "en"
)

// Accented words deliberately appear without \b suffixes: Go's word boundary
// is ASCII-only and never matches after a multibyte rune.
var portuguesePattern = regexp.MustCompile(`(?i)(você|\bvoce\b|\bqual\b|\bquais\b|\bquanto\b|\bquanta\b|\bquantos\b|\bquantas\b|\bcomo\b|\bquando\b|\bonde\b|\bpor que\b|\bporque\b|\bo que\b|\bhoje\b|\bontem\b|amanhã|\bamanha\b|postagem|postagens|publicad|agendad|menção|menções|\bmencao\b|\bmencoes\b|mencionad|vídeo|\bcanal\b|\bcanais\b|coment[aá]rio|\bfoi\b|\bforam\b|\bfazer\b|\bfeitas\b|\bmeu\b|\bminha\b|obrigad|olá|\bola\b|\bbom dia\b|\bboa tarde\b|\bboa noite\b|\bestá\b|\besta\b|\bsão\b|\bsao\b)`)

var englishPattern = regexp.MustCompile(`(?i)(\bwhat\b|\bwhich\b|\bhow\b|\bwhen\b|\bwhere\b|\bwhy\b|\bwho\b|\byou\b|\byour\b|\btoday\b|\byesterday\b|\btomorrow\b|\bpost\b|\bposts\b|\bposted\b|\bscheduled\b|\bmention\b|\bmentions\b|\bvideo\b|\bvideos\b|\bchannel\b|\bchannels\b|\bcomment\b|\bcomments\b|\bthanks\b|\bthank you\b|\bhello\b|\bhi\b|\bgood morning\b|\bgood afternoon\b|\bplease\b|\bshow me\b|\btell me\b)`)

// DetectLanguage counts keyword matches per locale. The comparison is a strict
// greater-than on the Portuguese count, so equal counts resolve to English.
func DetectLanguage(text string) Language {
	ptCount := len(portuguesePattern.FindAllStringIndex(text, -1))
	enCount := len(englishPattern.FindAllStringIndex(text, -1))
	if ptCount > enCount {
		return LangPortuguese
	}
	return LangEnglish
}

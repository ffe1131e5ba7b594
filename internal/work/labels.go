package work

// workTypeLabels maps API work types to the Portuguese display labels the
// site uses.
var workTypeLabels = map[string]string{
	"ARTICLE":    "Artigo",
	"BOOK":       "Livro",
	"CHAPTER":    "Capítulo",
	"THESIS":     "Tese/Dissertação",
	"CONFERENCE": "Artigo de Evento",
	"REPORT":     "Relatório",
	"DATASET":    "Dataset",
	"OTHER":      "Outro",
}

// languageLabels maps ISO 639-1 codes to Portuguese display labels.
var languageLabels = map[string]string{
	"pt": "Português",
	"en": "Inglês",
	"es": "Espanhol",
	"fr": "Francês",
	"de": "Alemão",
	"it": "Italiano",
}

// TypeLabel returns the display label for a work type, passing through
// unknown values unchanged.
func TypeLabel(workType string) string {
	if label, ok := workTypeLabels[workType]; ok {
		return label
	}
	return workType
}

// LanguageLabel returns the display label for a language code, passing
// through unknown values unchanged.
func LanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return code
}

package models

// Language is the closed set of languages the translation gateway accepts.
// Vendor language codes outside this set fail closed.
type Language string

const (
	LangKorean             Language = "ko"
	LangEnglish            Language = "en"
	LangJapanese           Language = "ja"
	LangChineseSimplified  Language = "zh-CN"
	LangChineseTraditional Language = "zh-TW"
	LangVietnamese         Language = "vi"
	LangThai               Language = "th"
	LangIndonesian         Language = "id"
	LangFrench             Language = "fr"
	LangSpanish            Language = "es"
	LangGerman             Language = "de"
	LangRussian            Language = "ru"
)

// ParseLanguage maps a vendor language code to the internal enum.
func ParseLanguage(code string) (Language, bool) {
	switch Language(code) {
	case LangKorean, LangEnglish, LangJapanese, LangChineseSimplified,
		LangChineseTraditional, LangVietnamese, LangThai, LangIndonesian,
		LangFrench, LangSpanish, LangGerman, LangRussian:
		return Language(code), true
	}
	return "", false
}

// Translation is a normalized translation result.
type Translation struct {
	Source     Language `json:"source"`
	Target     Language `json:"target"`
	Text       string   `json:"text"`
	Translated string   `json:"translated"`
}

// OCRText is the text recognized in an image.
type OCRText struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

// Transcript is the text recognized in an audio clip.
type Transcript struct {
	Text string `json:"text"`
}

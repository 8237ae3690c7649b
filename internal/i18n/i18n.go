// Package i18n provides localized user-facing strings.
//
// Nexus Sapiens ships Spanish-first content with an English fallback.
// Raw provider errors are never shown to users; the localized
// "chat.error.fallback" string is what ends up in the message log.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Supported languages.
const (
	LangES = "es"
	LangEN = "en"
)

// currentLang holds the active language.
var currentLang = LangES

// messages stores all translations, keyed by language then message key.
var messages = make(map[string]map[string]string)

// Init sets the active language. Unknown codes fall back to the
// NEXUS_LANG environment variable, then to Spanish.
func Init(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))

	switch lang {
	case "es", "es-es", "es-mx", "spanish":
		currentLang = LangES
	case "en", "en-us", "english":
		currentLang = LangEN
	default:
		if envLang := os.Getenv("NEXUS_LANG"); envLang != "" && !strings.EqualFold(envLang, lang) {
			Init(envLang)
			return
		}
		currentLang = LangES
	}

	loadMessages()
}

// SetLanguage changes the active language.
func SetLanguage(lang string) {
	Init(lang)
}

// GetLanguage returns the active language code.
func GetLanguage() string {
	return currentLang
}

// T returns the translation for key, falling back to English and then
// to the key itself.
func T(key string) string {
	if msg, ok := messages[currentLang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf returns the translated and formatted message.
func Sprintf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// GetSupportedLanguages lists supported language codes.
func GetSupportedLanguages() []string {
	return []string{LangES, LangEN}
}

// IsLanguageSupported reports whether lang is supported.
func IsLanguageSupported(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, supported := range GetSupportedLanguages() {
		if strings.EqualFold(lang, supported) {
			return true
		}
	}
	return false
}

func loadMessages() {
	messages[LangES] = make(map[string]string)
	messages[LangEN] = make(map[string]string)

	loadSpanishMessages()
	loadEnglishMessages()
}

func init() {
	if envLang := os.Getenv("NEXUS_LANG"); envLang != "" {
		Init(envLang)
	} else {
		Init(LangES)
	}
}

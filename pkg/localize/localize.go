package localize

import (
	"embed"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const DefaultLanguage = "en"

//go:embed languages/*.yml
var languageFiles embed.FS

var (
	languagesOnce sync.Once
	languages     map[string]map[string]any

	currentLanguageMutex sync.RWMutex
	currentLanguage      = DefaultLanguage
)

func loadLanguages() {
	languages = map[string]map[string]any{}

	entries, err := languageFiles.ReadDir("languages")
	if err != nil {
		log.Error().Err(err).Msg("Failed to list language files")
		return
	}

	for _, entry := range entries {
		contents, err := languageFiles.ReadFile(path.Join("languages", entry.Name()))
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Failed to read language file")
			continue
		}

		var dictionary map[string]any
		if err := yaml.Unmarshal(contents, &dictionary); err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Failed to parse language file")
			continue
		}

		languages[strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))] = dictionary
	}
}

// SetLanguage selects the language used by Localize. Browser style tags (fr-FR, "nb") are accepted.
func SetLanguage(language string) {
	currentLanguageMutex.Lock()
	defer currentLanguageMutex.Unlock()

	currentLanguage = normaliseLanguage(language)
}

func Language() string {
	currentLanguageMutex.RLock()
	defer currentLanguageMutex.RUnlock()

	return currentLanguage
}

// Localize looks up a dotted key in the current language
func Localize(key string) string {
	return In(Language(), key, "", "")
}

// LocalizeReplace looks up a dotted key and substitutes search with replace
func LocalizeReplace(key string, search string, replace string) string {
	return In(Language(), key, search, replace)
}

// In looks up a dotted key in the given language, falling back to English for unknown languages or keys.
// The key itself is returned when English does not have it either.
func In(language string, key string, search string, replace string) string {
	languagesOnce.Do(loadLanguages)

	translated, ok := lookup(languages[normaliseLanguage(language)], key)
	if !ok {
		translated, ok = lookup(languages[DefaultLanguage], key)
	}
	if !ok {
		translated = key
	}

	if search != "" && replace != "" {
		translated = strings.Replace(translated, search, replace, 1)
	}

	return translated
}

func lookup(dictionary map[string]any, key string) (string, bool) {
	if dictionary == nil {
		return "", false
	}

	var node any = dictionary
	for _, part := range strings.Split(key, ".") {
		branch, ok := node.(map[string]any)
		if !ok {
			return "", false
		}

		node, ok = branch[part]
		if !ok {
			return "", false
		}
	}

	value, ok := node.(string)
	return value, ok
}

func normaliseLanguage(language string) string {
	language = strings.Trim(language, "'\" ")
	language = strings.ToLower(strings.ReplaceAll(language, "_", "-"))

	if language == "" || language == "null" {
		return DefaultLanguage
	}

	base, _, _ := strings.Cut(language, "-")
	return base
}

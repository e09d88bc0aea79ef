package tags

import (
	"encoding/json"
	"strings"
)

// NormalizeList приводит список тегов к каноническому виду:
// trim, нижний регистр, без пустых строк и дубликатов,
// порядок первого вхождения сохраняется
func NormalizeList(items []string) []string {
	var normalized []string
	seen := make(map[string]struct{})

	for _, item := range items {
		tag := strings.ToLower(strings.TrimSpace(item))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}

// NormalizeRaw разбирает теги из одной строки. Сначала пробуем JSON:
// список даёт элементы, скаляр-строка - единственный кандидат.
// Если это не JSON - режем по запятым и точкам с запятой.
// Ошибок не бывает: мусор на входе даёт пустой или частичный список
func NormalizeRaw(raw string) []string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		tokens := strings.FieldsFunc(candidate, func(r rune) bool {
			return r == ',' || r == ';'
		})
		return NormalizeList(tokens)
	}

	switch value := parsed.(type) {
	case []interface{}:
		items := make([]string, 0, len(value))
		for _, element := range value {
			items = append(items, coerceString(element))
		}
		return NormalizeList(items)
	case string:
		return NormalizeList([]string{value})
	default:
		return nil
	}
}

func coerceString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}

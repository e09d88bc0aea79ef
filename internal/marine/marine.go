package marine

import "strings"

// Keywords - подобранный список ключевых слов морской тематики
var Keywords = []string{
	"algae",
	"aquatic",
	"bay",
	"beach",
	"boat",
	"buoy",
	"coast",
	"coastal",
	"coral",
	"crab",
	"current",
	"dolphin",
	"estuary",
	"fish",
	"fishing",
	"harbor",
	"kelp",
	"lagoon",
	"marine",
	"nautical",
	"ocean",
	"reef",
	"sail",
	"sailing",
	"sea",
	"seabird",
	"seagrass",
	"seashell",
	"seawater",
	"shellfish",
	"shore",
	"tidal",
	"tide",
	"turtle",
	"waterway",
	"wave",
	"whale",
}

// IsMarine сообщает, относится ли текст к морской тематике.
// Проверка - поиск подстроки без учёта регистра, без токенизации:
// ключевое слово внутри другого слова тоже засчитывается
func IsMarine(text string) bool {
	if text == "" {
		return false
	}

	normalized := strings.ToLower(text)
	for _, keyword := range Keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}

	return false
}

package textutil

import (
	"fmt"
	"sort"
	"strings"
)

var transliterations = map[string]*strings.Replacer{
	"ru": russian(),
}

func russian() *strings.Replacer {
	lower := map[rune]string{
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
		'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
		'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
		'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "shh",
		'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	}
	upper := map[rune]string{
		'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "Yo",
		'Ж': "Zh", 'З': "Z", 'И': "I", 'Й': "J", 'К': "K", 'Л': "L", 'М': "M",
		'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U",
		'Ф': "F", 'Х': "H", 'Ц': "C", 'Ч': "Ch", 'Ш': "Sh", 'Щ': "Shh",
		'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu", 'Я': "Ya",
	}
	pairs := make([]string, 0, 2*(len(lower)+len(upper)))
	for _, table := range []map[rune]string{lower, upper} {
		for r, latin := range table {
			pairs = append(pairs, string(r), latin)
		}
	}
	return strings.NewReplacer(pairs...)
}

// Languages lists the transliteration tables available to Transliterate.
func Languages() []string {
	out := make([]string, 0, len(transliterations))
	for lang := range transliterations {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Transliterator returns a function rewriting text of the given language
// with Latin letters.
func Transliterator(lang string) (func(string) string, error) {
	replacer, ok := transliterations[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return nil, fmt.Errorf("no transliteration for %q (available: %s)", lang, strings.Join(Languages(), ", "))
	}
	return replacer.Replace, nil
}

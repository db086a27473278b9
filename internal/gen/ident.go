package gen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// exportIdent derives an exported Go identifier from a flow name:
// "demo_flow" becomes "DemoFlow". Characters outside [A-Za-z0-9] split
// words; a name that yields nothing usable becomes "Flow".
func exportIdent(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !(r == '_' ||
			('a' <= r && r <= 'z') ||
			('A' <= r && r <= 'Z') ||
			('0' <= r && r <= '9'))
	})

	var b strings.Builder
	for _, w := range words {
		for _, part := range strings.Split(w, "_") {
			if part == "" {
				continue
			}
			b.WriteString(titler.String(part))
		}
	}

	ident := b.String()
	if ident == "" || !isLetter(rune(ident[0])) {
		ident = "Flow" + ident
	}
	return ident
}

// unexportIdent is exportIdent with a lowered first rune, for file-scoped
// names like the trigger table.
func unexportIdent(name string) string {
	ident := exportIdent(name)
	return strings.ToLower(ident[:1]) + ident[1:]
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

package svgenc

import (
	"regexp"
	"strings"
	"testing"
)

var entityDefRE = regexp.MustCompile(`<!ENTITY ([a-zA-Z]+) "([^"]*)">`)

// expandEntities undoes minification: strips the DOCTYPE and substitutes
// every declared entity reference back in.
func expandEntities(t *testing.T, markup string) string {
	t.Helper()
	start := strings.Index(markup, "<!DOCTYPE svg [")
	if start < 0 {
		return markup
	}
	end := strings.Index(markup[start:], "]>")
	if end < 0 {
		t.Fatal("unterminated DOCTYPE")
	}
	subset := markup[start : start+end+2]
	expanded := markup[:start] + markup[start+end+2:]

	defs := entityDefRE.FindAllStringSubmatch(subset, -1)
	// Later entities may reference earlier ones via prefixes; substitute in
	// reverse declaration order so nested refs resolve.
	for i := len(defs) - 1; i >= 0; i-- {
		expanded = strings.ReplaceAll(expanded, "&"+defs[i][1]+";", defs[i][2])
	}
	// A single pass more in case value entities appeared inside prefixes.
	for _, def := range defs {
		expanded = strings.ReplaceAll(expanded, "&"+def[1]+";", def[2])
	}
	return expanded
}

func TestMinifyAliasesRepeatedValues(t *testing.T) {
	value := strings.Repeat("0;.1;.2;.3;.4;", 8) + "1"
	markup := `<?xml version="1.0" encoding="UTF-8"?><svg>` +
		`<animate keyTimes="` + value + `"/>` +
		`<animate keyTimes="` + value + `"/>` +
		`<animate keyTimes="` + value + `"/>` +
		`</svg>`

	minified := Minify(markup)
	if !strings.Contains(minified, "<!DOCTYPE svg [") {
		t.Fatal("expected a DOCTYPE internal subset")
	}
	if !strings.Contains(minified, "&a;") {
		t.Fatal("expected an entity reference in the output")
	}
	if len(minified) >= len(markup) {
		t.Fatalf("minified output grew: %d >= %d", len(minified), len(markup))
	}
	if got := expandEntities(t, minified); got != markup {
		t.Fatal("expanding entities did not reproduce the original markup")
	}
}

func TestMinifyDoctypeFollowsXMLDecl(t *testing.T) {
	value := strings.Repeat("0;.1;.2;.3;.4;", 8) + "1"
	markup := `<?xml version="1.0" encoding="UTF-8"?><svg>` +
		`<animate keyTimes="` + value + `"/><animate keyTimes="` + value + `"/></svg>`
	minified := Minify(markup)
	if !strings.HasPrefix(minified, `<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE svg [`) {
		t.Fatalf("DOCTYPE not directly after xml declaration: %q", minified[:80])
	}
}

func TestMinifyLeavesUnprofitableInputAlone(t *testing.T) {
	markup := `<svg><rect x="1" y="2"/><rect x="3" y="4"/></svg>`
	if got := Minify(markup); got != markup {
		t.Fatalf("unprofitable input was rewritten: %q", got)
	}
	if got := Minify(""); got != "" {
		t.Fatalf("empty input rewritten: %q", got)
	}
}

func TestMinifyIdempotent(t *testing.T) {
	value := strings.Repeat("0;.05;.1;.15;.2;", 10) + "1"
	other := strings.Repeat("12.5 0;13 1;", 20) + "14 2"
	markup := `<?xml version="1.0" encoding="UTF-8"?><svg>` +
		`<animate keyTimes="` + value + `"/>` +
		`<animate keyTimes="` + value + `"/>` +
		`<animateTransform values="` + other + `"/>` +
		`<animateTransform values="` + other + `"/>` +
		`<animateTransform values="` + other + `12"/>` +
		`</svg>`

	once := Minify(markup)
	twice := Minify(once)
	if once != twice {
		t.Fatal("second minification changed the document")
	}
}

func TestMinifyPrefixAliasing(t *testing.T) {
	// Two long values share only a leading token run; whole-value aliasing
	// cannot help but prefix aliasing can.
	shared := "0;.01;.02;.03;.04;.05;.06;.07;.08;.09;.1;.11;.12"
	markup := `<svg>` +
		`<animate keyTimes="` + shared + `;.5;1"/>` +
		`<animate keyTimes="` + shared + `;.7;1"/>` +
		`</svg>`

	minified := Minify(markup)
	if !strings.Contains(minified, "<!ENTITY") {
		t.Fatal("expected a prefix entity to be defined")
	}
	if got := expandEntities(t, minified); got != markup {
		t.Fatal("prefix expansion did not reproduce the original markup")
	}
}

package svgenc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	attrValueRE = regexp.MustCompile(`\s[a-zA-Z_:][-\w:.]*="([^"]*)"`)
	attrRE      = regexp.MustCompile(`\s([a-zA-Z_:][-\w:.]*)="([^"]*)"`)
	xmlDeclRE   = regexp.MustCompile(`^<\?xml[^>]+\?>`)
)

var predefinedEntities = map[string]bool{
	"lt": true, "gt": true, "amp": true, "apos": true, "quot": true,
}

// Attributes eligible for shared-prefix aliasing. Keyframe lists repeat
// their leading tokens heavily across elements.
var prefixEntityAttrs = map[string]bool{"keyTimes": true, "values": true}

const (
	prefixMinTokens  = 6
	prefixMinLength  = 30
	prefixStartToken = 3
	prefixTokenLimit = 320
	prefixPassLimit  = 20
)

type entityDef struct {
	name  string
	value string
}

// Minify aliases repeated attribute values through XML entities declared in
// a DOCTYPE internal subset. Two passes run: whole-value aliasing for any
// attribute, then shared-prefix aliasing for keyframe list attributes. Each
// alias is kept only when its definition costs less than the bytes it
// saves, so re-minifying already-minified output is a no-op.
func Minify(svgMarkup string) string {
	if svgMarkup == "" {
		return svgMarkup
	}

	matches := attrValueRE.FindAllStringSubmatch(svgMarkup, -1)
	if len(matches) == 0 {
		return svgMarkup
	}
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m[1]]++
	}

	ordered := make([]string, 0, len(counts))
	for value := range counts {
		ordered = append(ordered, value)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		aw, bw := counts[a]*len(a), counts[b]*len(b)
		if aw != bw {
			return aw > bw
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	var selected []entityDef
	usedNames := make(map[string]bool, len(predefinedEntities))
	for name := range predefinedEntities {
		usedNames[name] = true
	}
	nameIndex := 0
	for _, value := range ordered {
		count := counts[value]
		if count < 2 {
			continue
		}
		// Values holding entity references stay as-is; aliasing them again
		// would break idempotence for no real gain.
		if strings.Contains(value, "&") {
			continue
		}
		name, nextIndex := nextEntityName(nameIndex, usedNames)
		ref := "&" + name + ";"
		def := fmt.Sprintf(`<!ENTITY %s "%s">`, name, value)
		savings := count*(len(value)-len(ref)) - len(def)
		if savings <= 0 {
			continue
		}
		usedNames[name] = true
		nameIndex = nextIndex
		selected = append(selected, entityDef{name: name, value: value})
	}

	minimized := svgMarkup
	if len(selected) > 0 {
		valueToRef := make(map[string]string, len(selected))
		escaped := make([]string, len(selected))
		for i, ent := range selected {
			valueToRef[ent.value] = "&" + ent.name + ";"
			escaped[i] = regexp.QuoteMeta(ent.value)
		}
		// Longer values first so they win over their own substrings.
		sort.Slice(escaped, func(i, j int) bool { return len(escaped[i]) > len(escaped[j]) })
		bulk := regexp.MustCompile(`="(` + strings.Join(escaped, "|") + `)"`)
		minimized = bulk.ReplaceAllStringFunc(minimized, func(m string) string {
			return `="` + valueToRef[m[2:len(m)-1]] + `"`
		})
	}

	for pass := 0; pass < prefixPassLimit; pass++ {
		name, nextIndex := nextEntityName(nameIndex, usedNames)
		attribute, prefix, ok := bestPrefixCandidate(minimized, name)
		if !ok {
			break
		}
		pattern := regexp.MustCompile(`(\s` + attribute + `=")` + regexp.QuoteMeta(prefix))
		minimized = pattern.ReplaceAllString(minimized, `${1}&`+name+`;`)
		usedNames[name] = true
		nameIndex = nextIndex
		selected = append(selected, entityDef{name: name, value: prefix})
	}

	if len(selected) == 0 {
		return svgMarkup
	}

	var defs strings.Builder
	for _, ent := range selected {
		fmt.Fprintf(&defs, `<!ENTITY %s "%s">`, ent.name, ent.value)
	}
	doctype := "<!DOCTYPE svg [" + defs.String() + "]>"
	if decl := xmlDeclRE.FindString(minimized); decl != "" {
		return decl + doctype + minimized[len(decl):]
	}
	return doctype + minimized
}

func nextEntityName(nameIndex int, usedNames map[string]bool) (string, int) {
	current := nameIndex
	for {
		candidate := compactName(current)
		current++
		if usedNames[candidate] {
			continue
		}
		return candidate, current
	}
}

// bestPrefixCandidate scans keyframe list attributes for the leading token
// run shared by the most values, and returns the one with the highest net
// savings when replaced by the entity named name.
func bestPrefixCandidate(svgMarkup, name string) (attribute, prefix string, ok bool) {
	type candidate struct {
		attribute string
		prefix    string
	}
	prefixCounts := make(map[candidate]int)
	for _, m := range attrRE.FindAllStringSubmatch(svgMarkup, -1) {
		attr, value := m[1], m[2]
		if !prefixEntityAttrs[attr] {
			continue
		}
		if strings.Contains(value, "&") || !strings.Contains(value, ";") {
			continue
		}
		tokens := strings.Split(value, ";")
		if len(tokens) < prefixMinTokens {
			continue
		}

		tokenLimit := min(len(tokens)-1, prefixTokenLimit)
		var sb strings.Builder
		for i := 0; i < tokenLimit; i++ {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(tokens[i])
			if i < prefixStartToken {
				continue
			}
			if sb.Len() < prefixMinLength {
				continue
			}
			prefixCounts[candidate{attribute: attr, prefix: sb.String()}]++
		}
	}
	if len(prefixCounts) == 0 {
		return "", "", false
	}

	refLen := len("&" + name + ";")
	bestSavings := 0
	var best candidate
	var found bool
	candidates := make([]candidate, 0, len(prefixCounts))
	for c := range prefixCounts {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].attribute != candidates[j].attribute {
			return candidates[i].attribute < candidates[j].attribute
		}
		return candidates[i].prefix < candidates[j].prefix
	})
	for _, c := range candidates {
		count := prefixCounts[c]
		if count < 2 {
			continue
		}
		defLen := len(fmt.Sprintf(`<!ENTITY %s "%s">`, name, c.prefix))
		savings := count*(len(c.prefix)-refLen) - defLen
		if savings <= 0 || savings <= bestSavings {
			continue
		}
		bestSavings = savings
		best = c
		found = true
	}
	if !found {
		return "", "", false
	}
	return best.attribute, best.prefix, true
}

package gitversioning

import (
	"strings"
)

const (
	defaultOperator  = ":-"
	overrideOperator = ":+"
)

// Render expands placeholders in tmpl against values.
//
// Supported placeholders:
//
//	${name}                 value of name, left as is when name is unknown
//	${name:-default}        value of name, or default when name is unknown
//	${name:+override}       override when name is known, otherwise empty
//	${name:+override:-def}  override when name is known, otherwise def
//
// Placeholders do not nest and substituted values are never expanded again.
func Render(tmpl string, values map[string]string) string {
	var out strings.Builder
	out.Grow(len(tmpl))

	rest := tmpl
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			out.WriteString(rest)
			return out.String()
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end == -1 {
			out.WriteString(rest)
			return out.String()
		}
		end += start + 2

		out.WriteString(rest[:start])
		out.WriteString(expand(rest[start:end+1], rest[start+2:end], values))
		rest = rest[end+1:]
	}
}

// expand resolves a single placeholder; raw is the placeholder text and body
// the part between the braces.
func expand(raw, body string, values map[string]string) string {
	p := parsePlaceholder(body)
	value, ok := values[p.name]

	switch {
	case ok && p.hasOverride:
		return p.override
	case ok:
		return value
	case p.hasDefault:
		return p.defaultValue
	case p.hasOverride:
		return ""
	default:
		return raw
	}
}

type placeholder struct {
	name         string
	override     string
	defaultValue string
	hasOverride  bool
	hasDefault   bool
}

func parsePlaceholder(body string) placeholder {
	var p placeholder

	cut := len(body)
	if i := strings.Index(body, defaultOperator); i != -1 {
		cut = i
	}
	if i := strings.Index(body, overrideOperator); i != -1 && i < cut {
		cut = i
	}
	p.name = body[:cut]
	rest := body[cut:]

	if strings.HasPrefix(rest, overrideOperator) {
		p.hasOverride = true
		rest = rest[len(overrideOperator):]
		if i := strings.Index(rest, defaultOperator); i != -1 {
			p.override = rest[:i]
			rest = rest[i:]
		} else {
			p.override = rest
			rest = ""
		}
	}

	if strings.HasPrefix(rest, defaultOperator) {
		p.hasDefault = true
		p.defaultValue = rest[len(defaultOperator):]
	}
	return p
}

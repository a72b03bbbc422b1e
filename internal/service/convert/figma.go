// Package convert turns design-tool CSS exports into embeddable
// HTML/CSS snippets for the custom-markup block.
package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Snippet is the result of a conversion: standalone markup plus the
// stylesheet that drives it.
type Snippet struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

type cssElement struct {
	name      string
	className string
	order     []string
	styles    map[string]string
}

var classUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Properties carried through to the generated stylesheet. Everything
// else a design export emits (absolute offsets, tool metadata) is
// dropped.
var allowedProperties = map[string]bool{
	"width": true, "height": true, "background": true, "color": true,
	"font-size": true, "font-weight": true, "line-height": true,
	"text-align": true, "border-radius": true, "margin": true,
	"padding": true, "display": true, "align-items": true,
	"justify-content": true, "flex-direction": true, "position": true,
	"font-family": true,
}

// FigmaCSS parses a Figma CSS export. Comment lines name elements;
// declarations that follow attach to the most recent element, and
// declarations before any comment become container-level styles.
func FigmaCSS(input string) Snippet {
	var (
		current  *cssElement
		elements []*cssElement
		global   []string
	)

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
			if current != nil {
				elements = append(elements, current)
			}
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "/*"), "*/"))
			current = &cssElement{
				name:      name,
				className: "figma-" + strings.ToLower(classUnsafe.ReplaceAllString(name, "-")),
				styles:    make(map[string]string),
			}
			continue
		}

		if strings.Contains(line, ":") && strings.HasSuffix(line, ";") {
			property, value, _ := strings.Cut(line, ":")
			property = strings.TrimSpace(property)
			value = strings.TrimSuffix(strings.TrimSpace(value), ";")

			if current != nil {
				if _, seen := current.styles[property]; !seen {
					current.order = append(current.order, property)
				}
				current.styles[property] = value
			} else {
				global = append(global, property+": "+value+";")
			}
		}
	}
	if current != nil {
		elements = append(elements, current)
	}

	return Snippet{
		HTML: buildHTML(elements),
		CSS:  buildCSS(elements, global),
	}
}

func buildHTML(elements []*cssElement) string {
	if len(elements) == 0 {
		return "<div>No elements found in the pasted CSS</div>"
	}

	var b strings.Builder
	b.WriteString("<div class=\"figma-container\">\n")
	for _, el := range elements {
		tag := tagFor(el)
		fmt.Fprintf(&b, "  <%s class=%q>%s</%s>\n", tag, el.className, contentFor(el), tag)
	}
	b.WriteString("</div>")
	return b.String()
}

func buildCSS(elements []*cssElement, global []string) string {
	var b strings.Builder

	b.WriteString(".figma-container {\n")
	b.WriteString("  position: relative;\n")
	b.WriteString("  width: 100%;\n")
	b.WriteString("  max-width: 1206px;\n")
	b.WriteString("  margin: 0 auto;\n")
	b.WriteString("  background: #FFFFFF;\n")
	for _, style := range global {
		b.WriteString("  " + style + "\n")
	}
	b.WriteString("}\n\n")

	for _, el := range elements {
		b.WriteString("." + el.className + " {\n")
		for _, property := range el.order {
			if converted := convertProperty(property, el.styles[property]); converted != "" {
				b.WriteString("  " + converted + "\n")
			}
		}
		b.WriteString("}\n\n")
	}

	b.WriteString(mobileStyles)
	return b.String()
}

const mobileStyles = `@media (max-width: 768px) {
  .figma-container {
    max-width: 100%;
    padding: 20px;
    transform: scale(0.6);
    transform-origin: top left;
  }

  .figma-container > * {
    position: relative !important;
    left: auto !important;
    top: auto !important;
    margin-bottom: 20px;
  }
}`

// convertProperty rewrites one declaration for embedding. Absolute
// positioning collapses to relative, design-file image references turn
// into a placeholder fill, and unknown properties are dropped.
func convertProperty(property, value string) string {
	if property == "position" && value == "absolute" {
		return "position: relative;"
	}

	if property == "background" && strings.HasPrefix(value, "url(") {
		name := strings.TrimSuffix(strings.TrimPrefix(value, "url("), ")")
		return fmt.Sprintf("/* upload this image: %s */\n  background: #f0f0f0;", name)
	}

	if property == "font-family" {
		return `font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;`
	}

	if allowedProperties[property] {
		return property + ": " + value + ";"
	}
	return ""
}

// tagFor infers a semantic tag from the element name and font size.
func tagFor(el *cssElement) string {
	name := strings.ToLower(el.name)

	if strings.Contains(name, "button") {
		return "button"
	}

	if strings.Contains(name, "image") || strings.Contains(name, "img") || strings.Contains(name, "icon") {
		return "div"
	}

	fontSize := 16
	if raw, ok := el.styles["font-size"]; ok {
		if n, err := strconv.Atoi(strings.TrimSuffix(raw, "px")); err == nil {
			fontSize = n
		}
	}
	switch {
	case fontSize > 32:
		return "h1"
	case fontSize > 24:
		return "h2"
	case fontSize > 18:
		return "h3"
	default:
		return "p"
	}
}

func contentFor(el *cssElement) string {
	if bg, ok := el.styles["background"]; ok && strings.HasPrefix(bg, "url(") {
		name := strings.TrimSuffix(strings.TrimPrefix(bg, "url("), ")")
		return fmt.Sprintf(`<span style="color: #999; font-size: 12px;">image: %s</span>`, name)
	}
	return el.name
}

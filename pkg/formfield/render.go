package formfield

import (
	"fmt"
	"html/template"
	"strings"
)

// WireNamePrefix distinguishes dynamic inputs from the fixed transaction
// fields when the submitted form is collected.
const WireNamePrefix = "custom_"

// WireName returns the form input name for a definition.
func WireName(def Definition) string {
	return WireNamePrefix + def.Name
}

// Render produces the HTML control for one definition, pre-filled with a
// previously stored value. The dispatch over Type is exhaustive; a
// Definition holding an out-of-range Type is a programming error and
// renders as an HTML comment so a broken schema row cannot corrupt the form.
// Every attribute value and text node is HTML-escaped here, since the result
// is template.HTML and the contextual escaper never sees it again.
func Render(def Definition, value string) template.HTML {
	name := WireName(def)
	required := ""
	if def.Required {
		required = " required"
	}
	esc := template.HTMLEscapeString
	switch def.Type {
	case TypeText:
		return template.HTML(fmt.Sprintf(
			`<input type="text" id="%s" name="%s" value="%s"%s>`,
			esc(name), esc(name), esc(value), required))
	case TypeNumber:
		return template.HTML(fmt.Sprintf(
			`<input type="number" id="%s" name="%s" value="%s"%s>`,
			esc(name), esc(name), esc(value), required))
	case TypeDate:
		return template.HTML(fmt.Sprintf(
			`<input type="date" id="%s" name="%s" value="%s"%s>`,
			esc(name), esc(name), esc(value), required))
	case TypeTextArea:
		return template.HTML(fmt.Sprintf(
			`<textarea id="%s" name="%s"%s>%s</textarea>`,
			esc(name), esc(name), required, esc(value)))
	case TypeSelect:
		return renderSelect(def, value, name, required)
	}
	return template.HTML(fmt.Sprintf("<!-- unsupported field type %d -->", int(def.Type)))
}

// renderSelect emits the options in stored order. An empty Options list
// still yields a working (empty) selector.
func renderSelect(def Definition, value, name, required string) template.HTML {
	esc := template.HTMLEscapeString
	var b strings.Builder
	fmt.Fprintf(&b, `<select id="%s" name="%s"%s>`, esc(name), esc(name), required)
	fmt.Fprintf(&b, `<option value="">Pilih %s</option>`, esc(def.Label))
	for _, opt := range def.Options {
		selected := ""
		if opt == value && value != "" {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
	}
	b.WriteString(`</select>`)
	return template.HTML(b.String())
}

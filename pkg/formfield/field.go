package formfield

import (
	"fmt"
	"strings"
	"unicode"
)

// Type enumerates the supported input kinds. The set is closed: wire values
// outside it are rejected at parse time instead of being rendered as plain text.
type Type int

const (
	TypeText Type = iota
	TypeNumber
	TypeDate
	TypeTextArea
	TypeSelect
)

var typeNames = map[Type]string{
	TypeText:     "text",
	TypeNumber:   "number",
	TypeDate:     "date",
	TypeTextArea: "textarea",
	TypeSelect:   "select",
}

// ParseType maps a wire tag ("text", "number", "date", "textarea", "select")
// onto its Type. Unknown tags are an error.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return TypeText, fmt.Errorf("unknown field type %q", s)
}

// TypeNames lists the wire tags in display order, for type pickers.
func TypeNames() []string {
	return []string{"text", "number", "date", "textarea", "select"}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Definition is one admin-defined column of the "Informasi Tambahan" section
// of a transaction. Options is only meaningful for TypeSelect.
type Definition struct {
	ID          int64
	Name        string
	Label       string
	Type        Type
	Required    bool
	Options     []string
	WarehouseID int64
}

// Datum carries one collected value back to the API.
type Datum struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DeriveName builds the machine name of a field from its label: all
// whitespace stripped, lowercased. Re-deriving from an already derived
// name is a no-op.
func DeriveName(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

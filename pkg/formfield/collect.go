package formfield

import "net/url"

// Collect walks the definitions in order and pulls each field's submitted
// value out of the posted form. Missing inputs yield an empty value rather
// than dropping the datum, so the stored additional data always mirrors the
// schema it was captured under.
func Collect(form url.Values, defs []Definition) []Datum {
	data := make([]Datum, 0, len(defs))
	for _, def := range defs {
		data = append(data, Datum{
			Key:   def.Name,
			Label: def.Label,
			Value: form.Get(WireName(def)),
		})
	}
	return data
}

// ValueByKey finds a stored datum for a field name. Used when an existing
// transaction is loaded back into the form.
func ValueByKey(data []Datum, key string) string {
	for _, d := range data {
		if d.Key == key {
			return d.Value
		}
	}
	return ""
}

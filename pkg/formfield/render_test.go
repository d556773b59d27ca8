package formfield

import (
	"net/url"
	"strings"
	"testing"
)

func TestRenderSelectKeepsOptionOrder(t *testing.T) {
	def := Definition{
		Name:    "metode",
		Label:   "Metode",
		Type:    TypeSelect,
		Options: []string{"Cash", "Transfer Bank", "QRIS"},
	}
	html := string(Render(def, ""))
	last := -1
	for _, opt := range def.Options {
		idx := strings.Index(html, ">"+opt+"<")
		if idx < 0 {
			t.Fatalf("option %q missing from rendered select: %s", opt, html)
		}
		if idx < last {
			t.Fatalf("option %q rendered out of order: %s", opt, html)
		}
		last = idx
	}
}

func TestRenderSelectPreselectsStoredValue(t *testing.T) {
	def := Definition{Name: "metode", Label: "Metode", Type: TypeSelect, Options: []string{"Cash", "Transfer Bank"}}
	html := string(Render(def, "Transfer Bank"))
	if !strings.Contains(html, `<option value="Transfer Bank" selected>`) {
		t.Errorf("stored value not pre-selected: %s", html)
	}
	if strings.Contains(html, `<option value="Cash" selected>`) {
		t.Errorf("wrong option selected: %s", html)
	}
}

func TestRenderSelectWithEmptyOptions(t *testing.T) {
	def := Definition{Name: "kosong", Label: "Kosong", Type: TypeSelect}
	html := string(Render(def, ""))
	if !strings.HasPrefix(html, "<select") || !strings.HasSuffix(html, "</select>") {
		t.Fatalf("empty-options select must still render a selector: %s", html)
	}
}

func TestRenderIgnoresOptionsForNonSelect(t *testing.T) {
	for _, typ := range []Type{TypeText, TypeNumber, TypeDate, TypeTextArea} {
		def := Definition{
			Name:    "f",
			Label:   "F",
			Type:    typ,
			Options: []string{"ShouldNotAppear"},
		}
		html := string(Render(def, ""))
		if strings.Contains(html, "ShouldNotAppear") {
			t.Errorf("type %s leaked options into output: %s", typ, html)
		}
	}
}

func TestRenderInputTypes(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{TypeText, `type="text"`},
		{TypeNumber, `type="number"`},
		{TypeDate, `type="date"`},
	}
	for _, c := range cases {
		html := string(Render(Definition{Name: "f", Label: "F", Type: c.typ}, ""))
		if !strings.Contains(html, c.want) {
			t.Errorf("type %s: expected %s in %s", c.typ, c.want, html)
		}
		if !strings.Contains(html, `name="custom_f"`) {
			t.Errorf("type %s: wire name missing prefix: %s", c.typ, html)
		}
	}
	area := string(Render(Definition{Name: "ket", Label: "Keterangan", Type: TypeTextArea, Required: true}, "isi"))
	if !strings.Contains(area, "<textarea") || !strings.Contains(area, ">isi</textarea>") {
		t.Errorf("textarea not rendered with value: %s", area)
	}
	if !strings.Contains(area, " required") {
		t.Errorf("required flag dropped: %s", area)
	}
}

func TestRenderEscapesStoredValue(t *testing.T) {
	hostile := `"><script>alert(1)</script>`
	for _, typ := range []Type{TypeText, TypeNumber, TypeDate, TypeTextArea} {
		html := string(Render(Definition{Name: "ket", Label: "Keterangan", Type: typ}, hostile))
		if strings.Contains(html, "<script>") {
			t.Errorf("type %s: stored value broke out of the control: %s", typ, html)
		}
		if !strings.Contains(html, "&#34;&gt;&lt;script&gt;") {
			t.Errorf("type %s: value not escaped: %s", typ, html)
		}
	}
}

func TestRenderSelectEscapesOptions(t *testing.T) {
	hostile := `a"><script>x</script>`
	def := Definition{
		Name:    "prio",
		Label:   `Prioritas "Tinggi"`,
		Type:    TypeSelect,
		Options: []string{hostile, "Biasa"},
	}
	html := string(Render(def, hostile))
	if strings.Contains(html, "<script>") {
		t.Fatalf("option broke out of its attribute: %s", html)
	}
	if !strings.Contains(html, `<option value="a&#34;&gt;&lt;script&gt;x&lt;/script&gt;" selected>`) {
		t.Errorf("hostile stored value not escaped and pre-selected: %s", html)
	}
	if !strings.Contains(html, `Pilih Prioritas &#34;Tinggi&#34;`) {
		t.Errorf("placeholder label not escaped: %s", html)
	}
}

func TestCollectSubmittedSelectValueIsLiteralOption(t *testing.T) {
	def := Definition{Name: "metode", Label: "Metode", Type: TypeSelect, Options: []string{"Cash", "Transfer Bank"}}
	for i, opt := range def.Options {
		form := url.Values{}
		form.Set(WireName(def), opt)
		data := Collect(form, []Definition{def})
		if len(data) != 1 || data[0].Value != opt {
			t.Errorf("option %d: collected %+v, want value %q", i, data, opt)
		}
	}
}

func TestCollectKeepsSchemaOrderAndFillsMissing(t *testing.T) {
	defs := []Definition{
		{Name: "nomorinvoice", Label: "Nomor Invoice", Type: TypeText},
		{Name: "jatuhtempo", Label: "Jatuh Tempo", Type: TypeDate},
	}
	form := url.Values{}
	form.Set("custom_jatuhtempo", "2025-01-31")
	data := Collect(form, defs)
	if len(data) != 2 {
		t.Fatalf("expected 2 data, got %d", len(data))
	}
	if data[0].Key != "nomorinvoice" || data[0].Value != "" {
		t.Errorf("missing input must collect as empty value: %+v", data[0])
	}
	if data[1].Key != "jatuhtempo" || data[1].Value != "2025-01-31" || data[1].Label != "Jatuh Tempo" {
		t.Errorf("unexpected datum: %+v", data[1])
	}
}

func TestValueByKey(t *testing.T) {
	data := []Datum{{Key: "a", Label: "A", Value: "1"}, {Key: "b", Label: "B", Value: "2"}}
	if v := ValueByKey(data, "b"); v != "2" {
		t.Errorf("ValueByKey(b) = %q", v)
	}
	if v := ValueByKey(data, "missing"); v != "" {
		t.Errorf("ValueByKey(missing) = %q", v)
	}
}

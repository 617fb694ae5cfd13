package notion

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func numPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func TestDisplayString_Checkbox(t *testing.T) {
	cases := []struct {
		name string
		prop PropertyValue
		want string
	}{
		{"checked", PropertyValue{Type: TypeCheckbox, Checkbox: boolPtr(true)}, "True"},
		{"unchecked", PropertyValue{Type: TypeCheckbox, Checkbox: boolPtr(false)}, "False"},
		{"absent", PropertyValue{Type: TypeCheckbox}, ""},
	}
	for _, tc := range cases {
		if got := tc.prop.DisplayString(); got != tc.want {
			t.Errorf("%s: DisplayString = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDisplayString_Text(t *testing.T) {
	title := PropertyValue{Type: TypeTitle, Title: &RichText{PlainText: "Some Video"}}
	if got := title.DisplayString(); got != "Some Video" {
		t.Errorf("title = %q, want %q", got, "Some Video")
	}

	richText := PropertyValue{Type: TypeRichText, RichText: &RichText{PlainText: "notes"}}
	if got := richText.DisplayString(); got != "notes" {
		t.Errorf("rich_text = %q, want %q", got, "notes")
	}

	empty := PropertyValue{Type: TypeTitle}
	if got := empty.DisplayString(); got != "" {
		t.Errorf("absent title = %q, want empty", got)
	}
}

func TestDisplayString_Number(t *testing.T) {
	integer := PropertyValue{Type: TypeNumber, Number: numPtr("42")}
	if got := integer.DisplayString(); got != "42" {
		t.Errorf("integer = %q, want %q", got, "42")
	}

	float := PropertyValue{Type: TypeNumber, Number: numPtr("3.5")}
	if got := float.DisplayString(); got != "3.5" {
		t.Errorf("float = %q, want %q", got, "3.5")
	}

	absent := PropertyValue{Type: TypeNumber}
	if got := absent.DisplayString(); got != "" {
		t.Errorf("absent number = %q, want empty", got)
	}
}

func TestDisplayString_Dates(t *testing.T) {
	date := PropertyValue{Type: TypeDate, Date: &DateValue{Start: "2023-07-04T10:30:00.000Z"}}
	if got := date.DisplayString(); got != "2023-07-04T10:30:00Z" {
		t.Errorf("date = %q, want %q", got, "2023-07-04T10:30:00Z")
	}

	created := PropertyValue{Type: TypeCreatedTime, CreatedTime: "2024-01-15T08:00:00Z"}
	if got := created.DisplayString(); got != "2024-01-15T08:00:00Z" {
		t.Errorf("created_time = %q, want %q", got, "2024-01-15T08:00:00Z")
	}

	// A plain date failure is absence, not the unresolved marker.
	invalid := PropertyValue{Type: TypeDate, Date: &DateValue{Start: "not a date"}}
	if got := invalid.DisplayString(); got != "" {
		t.Errorf("invalid date = %q, want empty", got)
	}

	absent := PropertyValue{Type: TypeDate}
	if got := absent.DisplayString(); got != "" {
		t.Errorf("absent date = %q, want empty", got)
	}
}

func TestDisplayString_Select(t *testing.T) {
	selected := PropertyValue{Type: TypeSelect, Select: &SelectOption{ID: "abc", Name: "Tech"}}
	if got := selected.DisplayString(); got != "abc Tech" {
		t.Errorf("select = %q, want %q", got, "abc Tech")
	}

	none := PropertyValue{Type: TypeSelect}
	if got := none.DisplayString(); got != "" {
		t.Errorf("empty select = %q, want empty", got)
	}

	multi := PropertyValue{Type: TypeMultiSelect, MultiSelect: []SelectOption{
		{ID: "a1", Name: "Go"},
		{ID: "b2", Name: "Rust"},
	}}
	if got := multi.DisplayString(); got != "a1 Go, b2 Rust" {
		t.Errorf("multi_select = %q, want %q", got, "a1 Go, b2 Rust")
	}
}

func TestDisplayString_Users(t *testing.T) {
	person := PropertyValue{Type: TypePeople, People: &User{ID: "u-1", Name: "Ada"}}
	if got := person.DisplayString(); got != "u-1: Ada" {
		t.Errorf("people = %q, want %q", got, "u-1: Ada")
	}

	anonymous := PropertyValue{Type: TypeCreatedBy, CreatedBy: &User{ID: "u-2"}}
	if got := anonymous.DisplayString(); got != "u-2: Unknown Name" {
		t.Errorf("created_by without name = %q, want %q", got, "u-2: Unknown Name")
	}
}

func TestDisplayString_Relation(t *testing.T) {
	linked := PropertyValue{Type: TypeRelation, Relation: &Relation{ID: "page-9"}}
	if got := linked.DisplayString(); got != "page-9" {
		t.Errorf("relation = %q, want %q", got, "page-9")
	}

	missing := PropertyValue{Type: TypeRelation}
	if got := missing.DisplayString(); got != "???" {
		t.Errorf("missing relation = %q, want %q", got, "???")
	}
}

func TestDisplayString_Formula(t *testing.T) {
	cases := []struct {
		name string
		prop PropertyValue
		want string
	}{
		{"string", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "string", String: strPtr("done")}}, "done"},
		{"null string", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "string"}}, "???"},
		{"number", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "number", Number: numPtr("3.14")}}, "3.14"},
		{"null number", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "number"}}, "???"},
		{"boolean", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "boolean", Boolean: boolPtr(true)}}, "True"},
		{"date", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "date", Date: &DateValue{Start: "2023-01-02T00:00:00Z"}}}, "2023-01-02T00:00:00Z"},
		// Formula date failures mark the value unresolved, unlike plain dates.
		{"null date", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "date"}}, "???"},
		{"unknown subtype", PropertyValue{Type: TypeFormula, Formula: &Formula{Type: "mystery"}}, "???"},
	}
	for _, tc := range cases {
		if got := tc.prop.DisplayString(); got != tc.want {
			t.Errorf("%s: DisplayString = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDisplayString_Rollup(t *testing.T) {
	cases := []struct {
		name string
		prop PropertyValue
		want string
	}{
		{"number", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "number", Number: numPtr("7")}}, "7"},
		{"null number", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "number"}}, "???"},
		{"null date", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "date"}}, "???"},
		{"array", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "array", Array: json.RawMessage(`[1, 2]`)}}, "[1,2]"},
		{"empty array", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "array"}}, "[]"},
		{"incomplete", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "incomplete"}}, "incomplete"},
		{"unsupported", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "unsupported"}}, "unsupported"},
		{"unknown subtype", PropertyValue{Type: TypeRollup, Rollup: &Rollup{Type: "mystery"}}, "???"},
	}
	for _, tc := range cases {
		if got := tc.prop.DisplayString(); got != tc.want {
			t.Errorf("%s: DisplayString = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDisplayString_UniqueID(t *testing.T) {
	full := PropertyValue{Type: TypeUniqueID, UniqueID: &UniqueID{Prefix: strPtr("SED-"), Number: numPtr("754")}}
	if got := full.DisplayString(); got != "SED-754" {
		t.Errorf("unique_id = %q, want %q", got, "SED-754")
	}

	bare := PropertyValue{Type: TypeUniqueID, UniqueID: &UniqueID{Number: numPtr("12")}}
	if got := bare.DisplayString(); got != "12" {
		t.Errorf("unique_id without prefix = %q, want %q", got, "12")
	}
}

func TestDisplayString_UnknownType(t *testing.T) {
	unknown := PropertyValue{Type: "ai_block"}
	if got := unknown.DisplayString(); got != "" {
		t.Errorf("unknown type = %q, want empty", got)
	}

	var nilProp *PropertyValue
	if got := nilProp.DisplayString(); got != "" {
		t.Errorf("nil property = %q, want empty", got)
	}
}

func TestDisplayString_ListWrapper(t *testing.T) {
	list := PropertyValue{
		Object: "list",
		Results: []PropertyValue{
			{Type: TypeRichText, RichText: &RichText{PlainText: "first"}},
			{Type: TypeRichText, RichText: &RichText{PlainText: "second"}},
		},
	}
	if got := list.DisplayString(); got != "first, second" {
		t.Errorf("list = %q, want %q", got, "first, second")
	}

	empty := PropertyValue{Object: "list"}
	if got := empty.DisplayString(); got != "" {
		t.Errorf("empty list = %q, want empty", got)
	}
}

// DisplayString must survive decoding real API payloads.
func TestDisplayString_FromJSON(t *testing.T) {
	raw := `{
		"object": "property_item",
		"id": "abc",
		"type": "url",
		"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	}`

	var prop PropertyValue
	if err := json.Unmarshal([]byte(raw), &prop); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got := prop.DisplayString(); got != want {
		t.Errorf("url from JSON = %q, want %q", got, want)
	}
}

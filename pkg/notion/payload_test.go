package notion

import "testing"

// allTypes covers every type tag the codec knows plus an unknown one, for
// the blanket empty-input checks.
var allTypes = []PropertyType{
	TypeCheckbox, TypeCreatedBy, TypeCreatedTime, TypeDate, TypeEmail,
	TypeURL, TypeNumber, TypePhoneNumber, TypeSelect, TypeMultiSelect,
	TypePeople, TypeLastEditedBy, TypeLastEditedTime, TypeTitle,
	TypeRichText, TypeFiles, TypeFormula, TypeRollup, TypeRelation,
	TypeStatus, TypeButton, TypeUniqueID, TypeVerification,
	PropertyType("unsupported_type"),
}

func TestBuildPayload_EmptyValueIsAbsent(t *testing.T) {
	for _, propType := range allTypes {
		for _, value := range []string{"", "   ", "\t\n"} {
			payload, err := BuildPayload(propType, value)
			if err != nil {
				t.Errorf("BuildPayload(%s, %q) returned error: %v", propType, value, err)
			}
			if payload != nil {
				t.Errorf("BuildPayload(%s, %q) = %v, want absent", propType, value, payload)
			}
		}
	}
}

func TestBuildPayload_UnsupportedTypeIsAbsent(t *testing.T) {
	for _, propType := range []PropertyType{
		TypeCreatedBy, TypeCreatedTime, TypePeople, TypeLastEditedBy,
		TypeLastEditedTime, TypeFiles, TypeFormula, TypeRollup,
		TypeRelation, TypeButton, TypeUniqueID, TypeVerification,
		PropertyType("unsupported_type"),
	} {
		payload, err := BuildPayload(propType, "value")
		if err != nil {
			t.Errorf("BuildPayload(%s) returned error: %v", propType, err)
		}
		if payload != nil {
			t.Errorf("BuildPayload(%s) = %v, want absent", propType, payload)
		}
	}
}

func TestBuildPayload_Text(t *testing.T) {
	payload, err := BuildPayload(TypeTitle, "  My Video  ")
	if err != nil {
		t.Fatalf("BuildPayload returned error: %v", err)
	}

	items, ok := payload["title"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("title payload = %v, want one rich text item", payload)
	}
	text := items[0].(map[string]any)["text"].(map[string]any)
	if text["content"] != "My Video" {
		t.Errorf("content = %v, want trimmed %q", text["content"], "My Video")
	}
}

func TestBuildPayload_Checkbox(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "On"}
	for _, value := range truthy {
		payload, err := BuildPayload(TypeCheckbox, value)
		if err != nil {
			t.Fatalf("BuildPayload(checkbox, %q) error: %v", value, err)
		}
		if payload["checkbox"] != true {
			t.Errorf("BuildPayload(checkbox, %q) = %v, want true", value, payload["checkbox"])
		}
	}

	for _, value := range []string{"false", "0", "no", "anything"} {
		payload, err := BuildPayload(TypeCheckbox, value)
		if err != nil {
			t.Fatalf("BuildPayload(checkbox, %q) error: %v", value, err)
		}
		if payload["checkbox"] != false {
			t.Errorf("BuildPayload(checkbox, %q) = %v, want false", value, payload["checkbox"])
		}
	}
}

func TestBuildPayload_Number(t *testing.T) {
	payload, err := BuildPayload(TypeNumber, "42")
	if err != nil {
		t.Fatalf("integer: %v", err)
	}
	if payload["number"] != int64(42) {
		t.Errorf("integer payload = %v (%T), want int64 42", payload["number"], payload["number"])
	}

	payload, err = BuildPayload(TypeNumber, "3.5")
	if err != nil {
		t.Fatalf("float: %v", err)
	}
	if payload["number"] != 3.5 {
		t.Errorf("float payload = %v, want 3.5", payload["number"])
	}

	// Parse failures surface as an error so the caller can log and drop the
	// field; they never panic or abort.
	payload, err = BuildPayload(TypeNumber, "not a number")
	if err == nil {
		t.Error("expected error for unparseable number")
	}
	if payload != nil {
		t.Errorf("failed parse payload = %v, want nil", payload)
	}
}

func TestBuildPayload_SelectAndStatus(t *testing.T) {
	payload, err := BuildPayload(TypeSelect, "In Progress")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	name := payload["select"].(map[string]any)["name"]
	if name != "In Progress" {
		t.Errorf("select name = %v, want %q", name, "In Progress")
	}

	payload, err = BuildPayload(TypeStatus, "Done")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	name = payload["status"].(map[string]any)["name"]
	if name != "Done" {
		t.Errorf("status name = %v, want %q", name, "Done")
	}
}

func TestBuildPayload_MultiSelect(t *testing.T) {
	payload, err := BuildPayload(TypeMultiSelect, "go, rust, , web ")
	if err != nil {
		t.Fatalf("multi_select: %v", err)
	}

	options := payload["multi_select"].([]any)
	want := []string{"go", "rust", "web"}
	if len(options) != len(want) {
		t.Fatalf("got %d options, want %d", len(options), len(want))
	}
	for i, opt := range options {
		name := opt.(map[string]any)["name"]
		if name != want[i] {
			t.Errorf("option %d = %v, want %q", i, name, want[i])
		}
	}
}

func TestBuildPayload_PassThroughTypes(t *testing.T) {
	cases := []struct {
		propType PropertyType
		key      string
	}{
		{TypeURL, "url"},
		{TypeEmail, "email"},
		{TypePhoneNumber, "phone_number"},
	}
	for _, tc := range cases {
		payload, err := BuildPayload(tc.propType, " value ")
		if err != nil {
			t.Fatalf("%s: %v", tc.propType, err)
		}
		if payload[tc.key] != "value" {
			t.Errorf("%s payload = %v, want trimmed %q", tc.propType, payload[tc.key], "value")
		}
	}

	payload, err := BuildPayload(TypeDate, "2023-07-04")
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	start := payload["date"].(map[string]any)["start"]
	if start != "2023-07-04" {
		t.Errorf("date start = %v, want %q", start, "2023-07-04")
	}
}

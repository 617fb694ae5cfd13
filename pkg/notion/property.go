package notion

import (
	"bytes"
	"encoding/json"
	"time"
)

// PropertyType identifies a Notion property kind. The set is closed: values
// outside it are tolerated and render as the empty string.
type PropertyType string

const (
	TypeCheckbox       PropertyType = "checkbox"
	TypeCreatedBy      PropertyType = "created_by"
	TypeCreatedTime    PropertyType = "created_time"
	TypeDate           PropertyType = "date"
	TypeEmail          PropertyType = "email"
	TypeURL            PropertyType = "url"
	TypeNumber         PropertyType = "number"
	TypePhoneNumber    PropertyType = "phone_number"
	TypeSelect         PropertyType = "select"
	TypeMultiSelect    PropertyType = "multi_select"
	TypePeople         PropertyType = "people"
	TypeLastEditedBy   PropertyType = "last_edited_by"
	TypeLastEditedTime PropertyType = "last_edited_time"
	TypeTitle          PropertyType = "title"
	TypeRichText       PropertyType = "rich_text"
	TypeFiles          PropertyType = "files"
	TypeFormula        PropertyType = "formula"
	TypeRollup         PropertyType = "rollup"
	TypeRelation       PropertyType = "relation"
	TypeStatus         PropertyType = "status"
	TypeButton         PropertyType = "button"
	TypeUniqueID       PropertyType = "unique_id"
	TypeVerification   PropertyType = "verification"
)

// unresolved marks a value that exists but could not be resolved (formula and
// rollup failures, missing relation targets). Distinct from "", which means
// the value is simply absent.
const unresolved = "???"

// User is a Notion user reference as it appears in people and audit fields.
type User struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// SelectOption is one option of a select, multi_select or status property.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// DateValue is the date payload; End and TimeZone are unused by this pipeline
// but kept so round-tripped JSON survives.
type DateValue struct {
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

// RichText is the slice of a rich text value the property-item endpoint
// returns; only the plain text matters here.
type RichText struct {
	PlainText string `json:"plain_text,omitempty"`
}

// File is a file attachment reference.
type File struct {
	Name string `json:"name,omitempty"`
}

// Formula is a computed property result, discriminated by its own Type.
type Formula struct {
	Type    string       `json:"type,omitempty"`
	String  *string      `json:"string,omitempty"`
	Number  *json.Number `json:"number,omitempty"`
	Boolean *bool        `json:"boolean,omitempty"`
	Date    *DateValue   `json:"date,omitempty"`
}

// Rollup is an aggregation result, discriminated by its own Type.
type Rollup struct {
	Type     string          `json:"type,omitempty"`
	Number   *json.Number    `json:"number,omitempty"`
	Date     *DateValue      `json:"date,omitempty"`
	Array    json.RawMessage `json:"array,omitempty"`
	Function string          `json:"function,omitempty"`
}

// Relation points at another page.
type Relation struct {
	ID string `json:"id,omitempty"`
}

// UniqueID is the auto-incrementing id property ("PREFIX-123" style, except
// Notion stores prefix and number separately and the prefix may be null).
type UniqueID struct {
	Prefix *string      `json:"prefix,omitempty"`
	Number *json.Number `json:"number,omitempty"`
}

// Verification carries the page verification state.
type Verification struct {
	State string `json:"state,omitempty"`
}

// PropertyValue is a single typed property as returned by the page property
// endpoint. Exactly one of the typed fields is populated, matching Type.
// When the endpoint paginates (Object == "list"), Results carries the items
// and the typed fields are empty.
type PropertyValue struct {
	Object string       `json:"object,omitempty"`
	ID     string       `json:"id,omitempty"`
	Type   PropertyType `json:"type,omitempty"`

	Checkbox       *bool          `json:"checkbox,omitempty"`
	CreatedBy      *User          `json:"created_by,omitempty"`
	CreatedTime    string         `json:"created_time,omitempty"`
	Date           *DateValue     `json:"date,omitempty"`
	Email          *string        `json:"email,omitempty"`
	URL            *string        `json:"url,omitempty"`
	Number         *json.Number   `json:"number,omitempty"`
	PhoneNumber    *string        `json:"phone_number,omitempty"`
	Select         *SelectOption  `json:"select,omitempty"`
	MultiSelect    []SelectOption `json:"multi_select,omitempty"`
	People         *User          `json:"people,omitempty"`
	LastEditedBy   *User          `json:"last_edited_by,omitempty"`
	LastEditedTime string         `json:"last_edited_time,omitempty"`
	Title          *RichText      `json:"title,omitempty"`
	RichText       *RichText      `json:"rich_text,omitempty"`
	Files          []File         `json:"files,omitempty"`
	Formula        *Formula       `json:"formula,omitempty"`
	Rollup         *Rollup        `json:"rollup,omitempty"`
	Relation       *Relation      `json:"relation,omitempty"`
	Status         *SelectOption  `json:"status,omitempty"`
	Button         *SelectOption  `json:"button,omitempty"`
	UniqueID       *UniqueID      `json:"unique_id,omitempty"`
	Verification   *Verification  `json:"verification,omitempty"`

	Results []PropertyValue `json:"results,omitempty"`
}

// DisplayString renders the property value as the flat string form used
// everywhere else in the pipeline. It never fails: unknown types and absent
// values come back as "". A paginated list renders each item and joins the
// results with ", ".
func (p *PropertyValue) DisplayString() string {
	if p == nil {
		return ""
	}
	if p.Object == "list" {
		var buf bytes.Buffer
		for i := range p.Results {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(p.Results[i].itemDisplayString())
		}
		return buf.String()
	}
	return p.itemDisplayString()
}

func (p *PropertyValue) itemDisplayString() string {
	switch p.Type {
	case TypeCheckbox:
		if p.Checkbox == nil {
			return ""
		}
		return boolString(*p.Checkbox)
	case TypeCreatedBy:
		return userString(p.CreatedBy)
	case TypeLastEditedBy:
		return userString(p.LastEditedBy)
	case TypePeople:
		return userString(p.People)
	case TypeCreatedTime:
		return isoDisplay(p.CreatedTime)
	case TypeLastEditedTime:
		return isoDisplay(p.LastEditedTime)
	case TypeDate:
		if p.Date == nil {
			return ""
		}
		return isoDisplay(p.Date.Start)
	case TypeEmail:
		return stringOrEmpty(p.Email)
	case TypeURL:
		return stringOrEmpty(p.URL)
	case TypePhoneNumber:
		return stringOrEmpty(p.PhoneNumber)
	case TypeNumber:
		if p.Number == nil {
			return ""
		}
		return p.Number.String()
	case TypeSelect:
		if p.Select == nil {
			return ""
		}
		return p.Select.ID + " " + p.Select.Name
	case TypeMultiSelect:
		if len(p.MultiSelect) == 0 {
			return ""
		}
		var buf bytes.Buffer
		for i, opt := range p.MultiSelect {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(opt.ID + " " + opt.Name)
		}
		return buf.String()
	case TypeTitle:
		if p.Title == nil {
			return ""
		}
		return p.Title.PlainText
	case TypeRichText:
		if p.RichText == nil {
			return ""
		}
		return p.RichText.PlainText
	case TypeFiles:
		var buf bytes.Buffer
		for i, f := range p.Files {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(f.Name)
		}
		return buf.String()
	case TypeFormula:
		return formulaString(p.Formula)
	case TypeRollup:
		return rollupString(p.Rollup)
	case TypeRelation:
		if p.Relation == nil || p.Relation.ID == "" {
			return unresolved
		}
		return p.Relation.ID
	case TypeStatus:
		if p.Status == nil {
			return ""
		}
		return p.Status.Name
	case TypeButton:
		if p.Button == nil {
			return ""
		}
		return p.Button.Name
	case TypeUniqueID:
		if p.UniqueID == nil {
			return ""
		}
		prefix := ""
		if p.UniqueID.Prefix != nil {
			prefix = *p.UniqueID.Prefix
		}
		number := ""
		if p.UniqueID.Number != nil {
			number = p.UniqueID.Number.String()
		}
		return prefix + number
	case TypeVerification:
		if p.Verification == nil {
			return ""
		}
		return p.Verification.State
	}
	// Unknown property type.
	return ""
}

func formulaString(f *Formula) string {
	if f == nil {
		return unresolved
	}
	switch f.Type {
	case "string":
		if f.String == nil || *f.String == "" {
			return unresolved
		}
		return *f.String
	case "number":
		if f.Number == nil {
			return unresolved
		}
		return f.Number.String()
	case "boolean":
		if f.Boolean == nil {
			return unresolved
		}
		return boolString(*f.Boolean)
	case "date":
		return dateStringOrUnresolved(f.Date)
	}
	return unresolved
}

func rollupString(r *Rollup) string {
	if r == nil {
		return unresolved
	}
	switch r.Type {
	case "number":
		if r.Number == nil {
			return unresolved
		}
		return r.Number.String()
	case "date":
		return dateStringOrUnresolved(r.Date)
	case "array":
		if len(r.Array) == 0 {
			return "[]"
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.Array); err != nil {
			return unresolved
		}
		return buf.String()
	case "incomplete", "unsupported":
		return r.Type
	}
	return unresolved
}

// dateStringOrUnresolved is the formula/rollup variant of date rendering:
// a missing or unparseable date marks the value unresolved instead of absent.
func dateStringOrUnresolved(d *DateValue) string {
	if d == nil || d.Start == "" {
		return unresolved
	}
	if s := isoDisplay(d.Start); s != "" {
		return s
	}
	return unresolved
}

func userString(u *User) string {
	id := ""
	name := ""
	if u != nil {
		id = u.ID
		name = u.Name
	}
	if name == "" {
		name = "Unknown Name"
	}
	return id + ": " + name
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isoTimeLayouts are tried in order when parsing Notion timestamps. Notion
// emits RFC 3339 with a trailing "Z"; date-only values occur for date
// properties without a time component.
var isoTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// isoDisplay reparses an ISO 8601 timestamp and re-emits it canonically.
// Absent or unparseable input renders as "".
func isoDisplay(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range isoTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return ""
}

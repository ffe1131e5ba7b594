package work

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString is a scalar field that upstream records encode sometimes as a
// JSON string and sometimes as a number (years, volumes, page ranges,
// identifiers). It unmarshals from either and keeps the textual form.
type FlexString string

// UnmarshalJSON accepts a JSON string, number, or null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// MarshalJSON emits a number when the value is purely numeric, otherwise a
// string, so records round-trip close to their upstream form.
func (f FlexString) MarshalJSON() ([]byte, error) {
	s := string(f)
	if s == "" {
		return []byte(`""`), nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// String returns the textual form.
func (f FlexString) String() string { return string(f) }

// IsSet reports whether the field carries a usable value. The upstream API
// serializes absent issues as the literal "None", which counts as unset.
func (f FlexString) IsSet() bool {
	return f != "" && f != "None"
}

// Affiliation is an author affiliation, encoded upstream either as a plain
// string or as an object with a name field.
type Affiliation string

// UnmarshalJSON accepts a string, an object with "name", or null.
func (a *Affiliation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = ""
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*a = Affiliation(obj.Name)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = Affiliation(s)
	return nil
}

// MarshalJSON emits the plain-string form.
func (a Affiliation) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// String returns the affiliation name.
func (a Affiliation) String() string { return string(a) }

// AuthorRef is one structured author entry on a saved item.
type AuthorRef struct {
	FullName string `json:"full_name"`
}

// AuthorList is the authors field of a saved item. Upstream it is either a
// list of objects with full_name, a list of bare name strings, a single
// free-text string, or absent.
type AuthorList struct {
	Refs     []AuthorRef
	FreeText string
}

// UnmarshalJSON accepts the three upstream encodings.
func (l *AuthorList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = AuthorList{}
		return nil
	}
	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		refs := make([]AuthorRef, 0, len(raw))
		for _, el := range raw {
			el = bytes.TrimSpace(el)
			if len(el) > 0 && el[0] == '{' {
				var ref AuthorRef
				if err := json.Unmarshal(el, &ref); err != nil {
					return err
				}
				refs = append(refs, ref)
				continue
			}
			var name string
			if err := json.Unmarshal(el, &name); err != nil {
				return err
			}
			refs = append(refs, AuthorRef{FullName: name})
		}
		*l = AuthorList{Refs: refs}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = AuthorList{FreeText: s}
	return nil
}

// MarshalJSON preserves the shape the list was read with: structured lists
// stay lists, free text stays a string.
func (l AuthorList) MarshalJSON() ([]byte, error) {
	if l.FreeText != "" {
		return json.Marshal(l.FreeText)
	}
	if l.Refs == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Refs)
}

// IsEmpty reports whether no author information is present.
func (l AuthorList) IsEmpty() bool {
	return l.FreeText == "" && len(l.Refs) == 0
}

// Names returns the individual author names, splitting free text on ";".
func (l AuthorList) Names() []string {
	if l.FreeText != "" {
		parts := strings.Split(l.FreeText, ";")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		return names
	}
	names := make([]string, 0, len(l.Refs))
	for _, r := range l.Refs {
		if r.FullName != "" {
			names = append(names, r.FullName)
		}
	}
	return names
}

// Display joins the author names with "; " for list views.
func (l AuthorList) Display() string {
	return strings.Join(l.Names(), "; ")
}

// Package normalize coerces loosely typed JSON values into the typed shapes
// the rest of the application works with.  Values may arrive as decoded
// JSON (any), JSON text (string, []byte, json.RawMessage), nil, garbage, or
// an already normalized Go value; every function here returns a usable
// default instead of failing, and applying a function to its own output
// returns the same value.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// Decode turns the bytes of a JSON column into a Go value.  NULL becomes
// nil; text that is not valid JSON is handed back as a string so the string
// rules of the other functions apply to it.
func Decode(raw []byte) any {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// parse attempts one structured parse of a string value.
func parse(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, false
	}
	return v, true
}

// sequence resolves v to a list of elements, parsing JSON text on the way.
func sequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case string:
		parsed, ok := parse(t)
		if !ok {
			return nil, false
		}
		arr, ok := parsed.([]any)
		return arr, ok
	case []byte:
		return sequence(Decode(t))
	case json.RawMessage:
		return sequence(Decode(t))
	}
	return nil, false
}

// List returns v as a list of strings.  Numbers and booleans are formatted,
// nested objects and nulls are dropped.  When v is neither a list nor JSON
// text holding a list, a copy of fallback is returned.
func List(v any, fallback []string) []string {
	items, ok := sequence(v)
	if !ok {
		return clone(fallback)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := scalar(it); ok {
			out = append(out, s)
		}
	}
	return out
}

// Editable guarantees at least one (blank) row so an editor always has a
// field to type into.
func Editable(list []string) []string {
	if len(list) == 0 {
		return []string{""}
	}
	return list
}

// Object returns v as a plain key/value map.  JSON text is parsed and must
// hold an object (a list is rejected); anything else yields def.
func Object(v any, def map[string]any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case string:
		if parsed, ok := parse(t); ok {
			if m, ok := parsed.(map[string]any); ok {
				return m
			}
		}
	case []byte:
		return Object(Decode(t), def)
	case json.RawMessage:
		return Object(Decode(t), def)
	}
	return def
}

// Gallery returns the image URLs in v, skipping non-strings and blanks.
// An empty gallery is valid and is returned as an empty slice.
func Gallery(v any) []string {
	out := []string{}
	items, ok := sequence(v)
	if !ok {
		return out
	}
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Itinerary returns the days in v.  Every element is completed with
// defaults: day 1 when missing or not positive, an empty title, and a
// single blank activity when there are none.
func Itinerary(v any) []model.ItineraryDay {
	out := []model.ItineraryDay{}
	if days, ok := v.([]model.ItineraryDay); ok {
		for _, d := range days {
			out = append(out, completeDay(d))
		}
		return out
	}
	items, ok := sequence(v)
	if !ok {
		return out
	}
	for _, it := range items {
		m, _ := it.(map[string]any)
		out = append(out, completeDay(model.ItineraryDay{
			Day:        model.ParseCount(m["day"]).Int(),
			Title:      text(m["title"]),
			Activities: List(m["activities"], []string{""}),
		}))
	}
	return out
}

// EditableItinerary is Itinerary with at least one day present.
func EditableItinerary(v any) []model.ItineraryDay {
	days := Itinerary(v)
	if len(days) == 0 {
		return []model.ItineraryDay{completeDay(model.ItineraryDay{})}
	}
	return days
}

func completeDay(d model.ItineraryDay) model.ItineraryDay {
	if d.Day <= 0 {
		d.Day = 1
	}
	if len(d.Activities) == 0 {
		d.Activities = []string{""}
	} else {
		d.Activities = clone(d.Activities)
	}
	return d
}

// scalar formats a JSON scalar as a string.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

// text is scalar with "" for everything that is not a scalar.
func text(v any) string {
	s, _ := scalar(v)
	return s
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

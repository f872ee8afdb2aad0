// Package htmlform extracts default submission values and anti-forgery tokens
// from HTML form subtrees, mimicking what a browser would send when a form is
// submitted without user edits.
package htmlform

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fields enumerates every input, textarea and select descendant of the form
// subtree that carries a non-empty name attribute and computes its default
// submission value per HTML semantics. Controls without a usable value
// (unchecked checkboxes/radios, file and button-like inputs) are omitted
// entirely rather than stored as empty entries. When two controls share a
// name, the later one in DOM order wins.
func Fields(form *goquery.Selection) map[string]string {
	values := make(map[string]string)
	form.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
		name := field.AttrOr("name", "")
		if name == "" {
			return
		}
		if value, ok := fieldValue(field); ok {
			values[name] = value
		}
	})
	return values
}

func fieldValue(field *goquery.Selection) (string, bool) {
	switch goquery.NodeName(field) {
	case "textarea":
		return strings.TrimSpace(field.Text()), true
	case "select":
		return selectValue(field)
	default:
		return inputValue(field)
	}
}

// inputValue dispatches on the input's type attribute over the closed set of
// known kinds. Unknown types deliberately fall through to text-like behavior,
// matching how browsers treat future input types.
func inputValue(input *goquery.Selection) (string, bool) {
	switch strings.ToLower(input.AttrOr("type", "text")) {
	case "checkbox":
		if _, checked := input.Attr("checked"); !checked {
			return "", false
		}
		return input.AttrOr("value", "on"), true
	case "radio":
		if _, checked := input.Attr("checked"); !checked {
			return "", false
		}
		// Unlike checkboxes there is no "on" fallback for radios.
		return input.Attr("value")
	case "file", "submit", "button", "reset", "image":
		return "", false
	default:
		return input.AttrOr("value", ""), true
	}
}

// selectValue returns the value of the option marked selected, falling back to
// the first option when none is. A select with no options submits the empty
// string.
func selectValue(sel *goquery.Selection) (string, bool) {
	options := sel.Find("option")
	if options.Length() == 0 {
		return "", true
	}

	var value string
	found := false
	options.EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if _, selected := opt.Attr("selected"); selected {
			value = optionValue(opt)
			found = true
			return false
		}
		return true
	})
	if !found {
		value = optionValue(options.First())
	}
	return value, true
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}

package htmlform

import (
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTokenField is the conventional name of the hidden anti-forgery input.
const DefaultTokenField = "_csrf_token"

// Token searches the form subtree for a hidden input named field (or
// DefaultTokenField when field is empty) and returns its value attribute.
// Only the hidden-field mechanism is supported; document-level meta-tag
// tokens require script execution to take effect and are deliberately not
// resolved.
func Token(form *goquery.Selection, field string) (string, bool) {
	if field == "" {
		field = DefaultTokenField
	}
	var token string
	found := false
	form.Find("input[type=hidden]").EachWithBreak(func(_ int, input *goquery.Selection) bool {
		if input.AttrOr("name", "") != field {
			return true
		}
		token = input.AttrOr("value", "")
		found = true
		return false
	})
	return token, found
}

// Augment injects the anti-forgery token into the submission values for
// state-changing methods (POST, PUT, PATCH, DELETE). A token the caller has
// already supplied is never overwritten, and GET submissions never receive
// one. The input map is not mutated; a copy is returned when the token is
// inserted.
func Augment(values map[string]string, token, field, method string) map[string]string {
	if field == "" {
		field = DefaultTokenField
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return values
	}
	if _, exists := values[field]; exists {
		return values
	}

	augmented := make(map[string]string, len(values)+1)
	for name, value := range values {
		augmented[name] = value
	}
	augmented[field] = token
	return augmented
}

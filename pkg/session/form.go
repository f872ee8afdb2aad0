package session

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xkilldash9x/webprobe/pkg/htmlform"
)

// Form is an immutable value pairing a form element with its accumulated
// submission values. Fill and Uncheck return new Forms; Submit consumes the
// form and yields the next Session.
type Form struct {
	selector string
	sel      *goquery.Selection
	values   map[string]string
	session  Session
}

// FindForm resolves selector to exactly one form element in the session's
// document and seeds the submission values with the form's browser defaults.
func FindForm(s Session, selector string) (Form, error) {
	forms := s.doc.Find(selector).Filter("form")
	if forms.Length() != 1 {
		return Form{}, fmt.Errorf("%w: %q", ErrFormNotFound, selector)
	}

	values := htmlform.Fields(forms.First())
	// The anti-forgery field is resolved at submit time. Seeding it here would
	// make it indistinguishable from a caller-supplied override and would leak
	// it into GET submissions.
	delete(values, s.cfg.CSRFField)

	return Form{
		selector: selector,
		sel:      forms.First(),
		values:   values,
		session:  s,
	}, nil
}

// Fill merges the given fields into the form's values; later fills overwrite
// earlier ones for the same key. Keys are plain strings and are used as-is.
func (f Form) Fill(fields map[string]string) Form {
	values := f.cloneValues(len(fields))
	for name, value := range fields {
		values[name] = value
	}
	next := f
	next.values = values
	return next
}

// Uncheck removes a key from the values, simulating deselection of a
// checkbox that defaulted to checked.
func (f Form) Uncheck(name string) Form {
	values := f.cloneValues(0)
	delete(values, name)
	next := f
	next.values = values
	return next
}

// Values returns a copy of the current submission values.
func (f Form) Values() map[string]string {
	return f.cloneValues(0)
}

// Submit resolves the target path (action attribute, else the session's
// current path) and method (method attribute, default GET), injects the
// anti-forgery token where applicable, and performs the request. Only GET and
// POST are accepted: browsers cannot submit other methods, so the application
// under test necessarily expects the POST + override-field indirection.
func (f Form) Submit() (Session, error) {
	action := f.sel.AttrOr("action", "")
	if action == "" {
		action = f.session.path
	}

	method := strings.ToUpper(strings.TrimSpace(f.sel.AttrOr("method", "")))
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return Session{}, fmt.Errorf(
			"%w %q in form %q: use method=\"post\" with a hidden \"_method\" field set to %q instead",
			ErrUnsupportedMethod, method, f.selector, strings.ToLower(method))
	}

	values := f.values
	if token, ok := htmlform.Token(f.sel, f.session.cfg.CSRFField); ok {
		values = htmlform.Augment(values, token, f.session.cfg.CSRFField, method)
	}

	return f.session.navigate(method, action, values, f.session.jar)
}

func (f Form) cloneValues(extra int) map[string]string {
	values := make(map[string]string, len(f.values)+extra)
	for name, value := range f.values {
		values[name] = value
	}
	return values
}

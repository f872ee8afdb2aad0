package session

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a transient handle on an anchor element inside a session's
// document. It only exists between FindLink and Click.
type Link struct {
	sel     *goquery.Selection
	session Session
}

// FindLink resolves selectorOrText against the session's document. A CSS
// selector match wins; failing that, the first anchor whose trimmed text
// equals the given string exactly is used.
func FindLink(s Session, selectorOrText string) (Link, error) {
	if match := s.doc.Find(selectorOrText); match.Length() > 0 {
		return Link{sel: match.First(), session: s}, nil
	}

	var byText *goquery.Selection
	s.doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) == selectorOrText {
			byText = a
			return false
		}
		return true
	})
	if byText == nil {
		return Link{}, fmt.Errorf("%w: %q", ErrLinkNotFound, selectorOrText)
	}
	return Link{sel: byText, session: s}, nil
}

// Click follows the link's href (default "/") with the session's jar,
// yielding the superseding session.
func (l Link) Click() (Session, error) {
	href := l.sel.AttrOr("href", "/")
	return l.session.navigate(http.MethodGet, href, nil, l.session.jar)
}

// Package cookiejar implements the browser-style cookie store carried across
// a chain of simulated requests. Unlike net/http/cookiejar it is a plain value
// type with no domain/path matching: the application under test is a single
// in-process handler, so every stored cookie applies to every request.
package cookiejar

import (
	"net/http"
	"sort"
	"strings"
)

// Cookie represents a single cookie record as sent in a Set-Cookie header.
type Cookie struct {
	Name  string
	Value string

	Path   string // optional
	Domain string // optional

	// MaxAge follows the net/http convention:
	// MaxAge=0 means no 'Max-Age' attribute specified.
	// MaxAge<0 means delete cookie now; (*http.Response).Cookies() already
	// normalizes a wire "Max-Age: 0" to -1.
	// MaxAge>0 means Max-Age attribute present, in seconds.
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Jar is an associative store of cookie name to cookie record. The zero-length
// jar is the identity element for Merge. Jars are never mutated in place;
// every combining operation returns a fresh jar.
type Jar map[string]Cookie

// Empty returns the identity jar.
func Empty() Jar {
	return Jar{}
}

// FromResponse lifts a response's Set-Cookie headers into a Jar. Deletion
// cookies (MaxAge < 0) are kept here so that Merge can apply their removal
// semantics against an existing jar.
func FromResponse(resp *http.Response) Jar {
	jar := Empty()
	if resp == nil {
		return jar
	}
	for _, c := range resp.Cookies() {
		jar[c.Name] = Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			MaxAge:   c.MaxAge,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			SameSite: c.SameSite,
		}
	}
	return jar
}

// Merge combines two jars with a right-biased union: for every name present in
// both, the incoming cookie wins. After the union, any entry whose MaxAge is
// negative is removed, which is how deletion/expiry cookies take effect; the
// deleted name need not exist in the existing jar for the result to be correct.
//
// Merge satisfies the monoid laws with Empty() as identity: it has two-sided
// identity and is associative. It is deliberately NOT commutative when both
// jars define the same name with different values; navigation folds responses
// left to right, so the later response must win.
func Merge(existing, incoming Jar) Jar {
	merged := make(Jar, len(existing)+len(incoming))
	for name, c := range existing {
		merged[name] = c
	}
	for name, c := range incoming {
		merged[name] = c
	}
	for name, c := range merged {
		if c.MaxAge < 0 {
			delete(merged, name)
		}
	}
	return merged
}

// Apply writes the jar into the request's Cookie header as a single
// "name=value; name=value" string. An empty jar leaves the request untouched.
// Names are written in sorted order so the header is deterministic.
func (j Jar) Apply(req *http.Request) {
	if len(j) == 0 {
		return
	}
	pairs := make([]string, 0, len(j))
	for _, name := range j.Names() {
		pairs = append(pairs, name+"="+j[name].Value)
	}
	req.Header.Set("Cookie", strings.Join(pairs, "; "))
}

// Get returns the cookie stored under name, reporting whether it exists.
func (j Jar) Get(name string) (Cookie, bool) {
	c, ok := j[name]
	return c, ok
}

// Names returns the stored cookie names in sorted order.
func (j Jar) Names() []string {
	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

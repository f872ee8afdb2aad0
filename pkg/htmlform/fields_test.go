package htmlform

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formFrom(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	form := doc.Find("form")
	require.Equal(t, 1, form.Length(), "fixture must contain exactly one form")
	return form
}

func TestFields(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   map[string]string
	}{
		{
			name:   "text input with value",
			markup: `<form><input name="u" value="alice"></form>`,
			want:   map[string]string{"u": "alice"},
		},
		{
			name:   "text input without value submits empty string",
			markup: `<form><input type="text" name="u"></form>`,
			want:   map[string]string{"u": ""},
		},
		{
			name:   "email password and hidden are text-like",
			markup: `<form><input type="email" name="e" value="a@b"><input type="password" name="p" value="s3cret"><input type="hidden" name="h" value="x"></form>`,
			want:   map[string]string{"e": "a@b", "p": "s3cret", "h": "x"},
		},
		{
			name:   "unknown input type falls back to text-like",
			markup: `<form><input type="future-widget" name="w" value="v"></form>`,
			want:   map[string]string{"w": "v"},
		},
		{
			name:   "unnamed controls are skipped",
			markup: `<form><input value="ignored"><input name="" value="ignored"></form>`,
			want:   map[string]string{},
		},
		{
			name:   "unchecked checkbox contributes nothing",
			markup: `<form><input type="checkbox" name="t"></form>`,
			want:   map[string]string{},
		},
		{
			name:   "checked checkbox without value defaults to on",
			markup: `<form><input type="checkbox" name="t" checked></form>`,
			want:   map[string]string{"t": "on"},
		},
		{
			name:   "checked checkbox with value",
			markup: `<form><input type="checkbox" name="t" value="yes" checked></form>`,
			want:   map[string]string{"t": "yes"},
		},
		{
			name:   "only the checked radio contributes",
			markup: `<form><input type="radio" name="r" value="a"><input type="radio" name="r" value="b" checked></form>`,
			want:   map[string]string{"r": "b"},
		},
		{
			name:   "checked radio without value has no fallback",
			markup: `<form><input type="radio" name="r" checked></form>`,
			want:   map[string]string{},
		},
		{
			name:   "file submit button reset image are excluded",
			markup: `<form><input type="file" name="f"><input type="submit" name="s" value="Go"><input type="button" name="b" value="B"><input type="reset" name="x"><input type="image" name="i"></form>`,
			want:   map[string]string{},
		},
		{
			name:   "textarea submits trimmed text",
			markup: "<form><textarea name=\"bio\">\n  hello world  \n</textarea></form>",
			want:   map[string]string{"bio": "hello world"},
		},
		{
			name:   "select uses the selected option",
			markup: `<form><select name="country"><option value="us">US</option><option value="jp" selected>JP</option></select></form>`,
			want:   map[string]string{"country": "jp"},
		},
		{
			name:   "select falls back to the first option",
			markup: `<form><select name="country"><option value="us">US</option><option value="jp">JP</option></select></form>`,
			want:   map[string]string{"country": "us"},
		},
		{
			name:   "selected option without value uses its text",
			markup: `<form><select name="country"><option>US</option><option selected> JP </option></select></form>`,
			want:   map[string]string{"country": "JP"},
		},
		{
			name:   "select with no options submits empty string",
			markup: `<form><select name="country"></select></form>`,
			want:   map[string]string{"country": ""},
		},
		{
			name:   "later field with the same name wins",
			markup: `<form><input name="u" value="first"><input name="u" value="second"></form>`,
			want:   map[string]string{"u": "second"},
		},
		{
			name: "mixed form",
			markup: `<form>
				<input name="username" value="alice">
				<input type="checkbox" name="remember" checked>
				<textarea name="notes">hi</textarea>
				<select name="lang"><option value="en" selected>English</option></select>
				<input type="submit" value="Save">
			</form>`,
			want: map[string]string{
				"username": "alice",
				"remember": "on",
				"notes":    "hi",
				"lang":     "en",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(formFrom(t, tt.markup))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFields_OnlyWithinSubtree(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<form id="a"><input name="inside" value="1"></form>
		 <input name="outside" value="2">`))
	require.NoError(t, err)

	got := Fields(doc.Find("#a"))
	assert.Equal(t, map[string]string{"inside": "1"}, got)
}

package util

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var XSSPolicy = bluemonday.UGCPolicy()

// XSSSanitize strips dangerous HTML from user content and returns the
// unescaped result. Post and comment bodies pass through here before they
// are stored.
func XSSSanitize(val string) string {
	return html.UnescapeString(XSSPolicy.Sanitize(val))
}

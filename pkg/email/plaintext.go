package email

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// bluemonday's strict policy drops every tag and skips the content of
// <style> and <title>, which leaves the readable text of a rendered email.
var textPolicy = bluemonday.StrictPolicy()

var lineBreaks = strings.NewReplacer(
	"<br/>", "\n",
	"<br>", "\n",
	"</p>", "</p>\n",
	"</tr>", "</tr>\n",
	"</h1>", "</h1>\n",
	"</div>", "</div>\n",
)

// PlainText derives the text/plain alternative from an HTML body.
func PlainText(htmlBody string) string {
	stripped := html.UnescapeString(textPolicy.Sanitize(lineBreaks.Replace(htmlBody)))

	var out []string
	blank := false
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

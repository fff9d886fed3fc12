package email

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

// Template names, as embedded under templates/.
const (
	templateEnquiryNotification = "enquiry_notification.html"
	templateDailyDigest         = "daily_digest.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"longDate": func(t time.Time) string {
		return t.UTC().Format("Monday, 2 January 2006")
	},
	// plural renders "1 enquiry" / "3 enquiries".
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, one)
		}
		return fmt.Sprintf("%d %s", n, many)
	},
}

// loadTemplates parses every embedded template and checks the ones the
// service sends are present.
func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range []string{templateEnquiryNotification, templateDailyDigest} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("missing email template %s", name)
		}
	}
	return tmpl, nil
}

package mailer

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/go-faster/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// templateNames maps an email kind to its template file and plain-text body.
var templateNames = map[Kind]struct {
	file string
	text func(data map[string]any) string
}{
	KindVerification: {"verification.html", func(d map[string]any) string {
		return "To verify your email, open this link: " + str(d["URL"]) +
			"\nIf you did not create an account, ignore this email."
	}},
	KindResetPassword: {"reset_password.html", func(d map[string]any) string {
		return "To reset your password, open this link: " + str(d["URL"]) +
			"\nIf you did not request a password reset, ignore this email."
	}},
	KindOrderConfirmation: {"order_confirmation.html", func(d map[string]any) string {
		return "Your order " + str(d["OrderID"]) + " has been placed. View it at: " + str(d["URL"])
	}},
	KindOrderStatusUpdate: {"order_status_update.html", func(d map[string]any) string {
		return "Your order " + str(d["OrderID"]) + " is now " + str(d["Status"]) + ". View it at: " + str(d["URL"])
	}},
	KindNewOrder: {"new_order.html", func(d map[string]any) string {
		return "You received a new order " + str(d["OrderID"]) + ". View it at: " + str(d["URL"])
	}},
}

// render produces the HTML and plain-text bodies for an email kind.
func render(kind Kind, data map[string]any) (html, text string, err error) {
	tpl, ok := templateNames[kind]
	if !ok {
		return "", "", errors.Errorf("unknown email kind %q", kind)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tpl.file, data); err != nil {
		return "", "", errors.Wrapf(err, "execute template %q", tpl.file)
	}
	return buf.String(), tpl.text(data), nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

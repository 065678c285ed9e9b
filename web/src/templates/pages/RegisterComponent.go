package pages

import (
	"fmt"

	"github.com/nfrund/regform/internal/domain"
	"github.com/nfrund/regform/internal/view/dto/auth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Routes the registration form talks to.
const (
	SubmitPath  = "/register"
	FieldPath   = "/register/field"
	UnmountPath = "/register/unmount"
)

// ErrorSlotID is the id of the element that holds the error message. htmx
// swaps it after a failed submission.
const ErrorSlotID = "register-error"

// Register is the registration form. Submission goes through htmx, so the
// browser never performs its default full-page post when scripts run.
func Register(data auth.RegisterData) cmp.Node {
	return g.Div(
		g.Class("login-container"),
		g.H2(cmp.Text("Register")),
		ErrorSlot(data.ErrorMessage),
		g.Form(
			g.ID("register-form"),
			g.Method("post"),
			g.Action(SubmitPath),
			hx.Post(SubmitPath),
			hx.Target("#"+ErrorSlotID),
			hx.Swap("outerHTML"),
			hx.Sync("this:drop"),
			g.Input(g.Type("hidden"), g.Name("form_id"), g.Value(data.FormID)),
			inputField(domain.FieldUsername, "text", data.Username),
			inputField(domain.FieldEmail, "email", data.Email),
			inputField(domain.FieldPassword, "password", ""),
			g.Button(g.Type("submit"), cmp.Text(data.SubmitLabel)),
		),
		g.P(
			cmp.Text("Have an account already? "),
			g.A(g.Href(data.LoginRoute), cmp.Text("Sign In")),
		),
	)
}

// ErrorSlot renders the error paragraph when msg is set. The wrapper is
// always present so htmx has a target to replace.
func ErrorSlot(msg string) cmp.Node {
	return g.Div(
		g.ID(ErrorSlotID),
		cmp.If(msg != "", g.P(g.Class("error"), cmp.Text(msg))),
	)
}

// inputField renders one labelled, required input that reports every edit
// to the server.
func inputField(f domain.Field, inputType, value string) cmp.Node {
	label := cases.Title(language.English).String(string(f))
	return g.Label(
		cmp.Text(label),
		g.Input(
			g.Name(string(f)),
			g.Type(inputType),
			g.Placeholder(label),
			cmp.If(value != "", g.Value(value)),
			g.Required(),
			hx.Post(FieldPath),
			hx.Trigger("input changed delay:200ms"),
			hx.Swap("none"),
			hx.Vals(fmt.Sprintf(`{"field":%q}`, f)),
		),
	)
}

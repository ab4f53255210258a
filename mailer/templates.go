package mailer

import (
	"bytes"
	"html/template"
)

var (
	resetPasswordTmpl = template.Must(template.New("reset").Parse(`<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. The link below is valid for a short time.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not ask for this, ignore this email.</p>`))

	accountCreatedTmpl = template.Must(template.New("account").Parse(`<p>Hello {{.Name}},</p>
<p>An account has been created for you.</p>
<p>Username: <b>{{.Email}}</b><br>Temporary password: <b>{{.Password}}</b></p>
<p>Please <a href="{{.Link}}">sign in</a> and change your password.</p>`))

	registrationRequestTmpl = template.Must(template.New("request").Parse(`<p>{{.Manager}} asked to add a new member.</p>
<p>Name: <b>{{.Name}}</b><br>Email: <b>{{.Email}}</b></p>
<p><a href="{{.Link}}">Review the request</a></p>`))
)

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ResetPassword builds the forgot-password email
func ResetPassword(to, name, link string) (Message, error) {
	html, err := render(resetPasswordTmpl, map[string]string{"Name": name, "Link": link})
	return Message{To: to, Subject: "Reset your password", HTML: html}, err
}

// AccountCreated builds the welcome email carrying a temporary password
func AccountCreated(to, name, password, loginLink string) (Message, error) {
	html, err := render(accountCreatedTmpl, map[string]string{
		"Name": name, "Email": to, "Password": password, "Link": loginLink,
	})
	return Message{To: to, Subject: "Your account has been created", HTML: html}, err
}

// RegistrationRequest builds the email asking an admin to approve a new member
func RegistrationRequest(to, manager, name, email, link string) (Message, error) {
	html, err := render(registrationRequestTmpl, map[string]string{
		"Manager": manager, "Name": name, "Email": email, "Link": link,
	})
	return Message{To: to, Subject: "New user registration request", HTML: html}, err
}

package notify

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

var emailSubjectTemplate = texttemplate.Must(texttemplate.New("subject").Parse(
	`Safe zone alert: {{.Patient}} has left the safe area`,
))

var emailBodyTemplate = htmltemplate.Must(htmltemplate.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2 style="color: #c0392b;">Safe zone alert</h2>
  <p><strong>{{.Patient}}</strong> is outside every safe zone configured for <strong>{{.DeviceName}}</strong>.</p>
  <table cellpadding="4">
    <tr><td>Time</td><td>{{.FormattedTime}}</td></tr>
    <tr><td>Coordinates</td><td>{{.Coordinates}}</td></tr>
  </table>
  <p><a href="{{.MapLink}}">Open the last known location on the map</a></p>
  <p style="font-size: 13px; color: #555;">Already with {{.Patient}}? <a href="{{.PauseLink}}">Pause alerts</a></p>
</body>
</html>
`))

var whatsAppTemplate = texttemplate.Must(texttemplate.New("whatsapp").Parse(
	`*Safe zone alert*
{{.Patient}} is outside every safe zone configured for {{.DeviceName}}.

Time: {{.FormattedTime}}
Coordinates: {{.Coordinates}}
Map: {{.MapLink}}

Already with {{.Patient}}? Pause alerts: {{.PauseLink}}`,
))

func RenderEmailSubject(alert AlertContext) (string, error) {
	var sb strings.Builder
	if err := emailSubjectTemplate.Execute(&sb, alert); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func RenderEmailHTML(alert AlertContext) (string, error) {
	var sb strings.Builder
	if err := emailBodyTemplate.Execute(&sb, alert); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func RenderWhatsAppText(alert AlertContext) (string, error) {
	var sb strings.Builder
	if err := whatsAppTemplate.Execute(&sb, alert); err != nil {
		return "", err
	}
	return sb.String(), nil
}

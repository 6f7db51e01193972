package notify

import (
	"bytes"
	"text/template"
)

const AssignmentSubject = "New Case Assigned - Court Record System"

var assignmentBody = template.Must(template.New("assignment").Funcs(template.FuncMap{
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}).Parse(`Dear {{.LawyerName}},

You have been assigned a new case.

Client Name: {{.ClientName}}
Case Number: {{.CaseNumber}}
Email: {{orNA .ClientEmail}}
Contact: {{orNA .ClientContact}}
Last Court Date: {{orNA .LastDate}}
Next Court Date: {{orNA .NextDate}}
Case Note: {{orNA .Note}}

Please prepare accordingly.

Regards,
Court Record Management System
`))

// RenderAssignment returns the plain-text body for n.
func RenderAssignment(n AssignmentNotice) (string, error) {
	var b bytes.Buffer
	if err := assignmentBody.Execute(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

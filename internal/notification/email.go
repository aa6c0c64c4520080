package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"
	"campus-lost-found/pkg/utils"
)

// Message is one outbound email. Recipients are never shown to each other.
type Message struct {
	Recipients []string
	Subject    string
	HTML       string
}

var newReportTemplate = template.Must(template.New("new_report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>A new item was reported as {{.Status}}</h2>
  <p><strong>{{.Reporter}}</strong> just posted a report on Lost No More.</p>
  <table cellpadding="4">
    <tr><td><strong>Item</strong></td><td>{{.Title}}</td></tr>
    <tr><td><strong>Status</strong></td><td>{{.Status}}</td></tr>
    <tr><td><strong>Location</strong></td><td>{{.Location}}</td></tr>
  </table>
  <p><a href="{{.DashboardURL}}">Open the dashboard</a> to see the details.</p>
</body>
</html>
`))

type newReportView struct {
	Reporter     string
	Title        string
	Status       string
	Location     string
	DashboardURL string
}

func subjectFor(r *report.Report) string {
	return fmt.Sprintf("New %s Item Reported", r.Status)
}

func renderNewReport(r *report.Report, reporter *user.User, dashboardURL string) (string, error) {
	var buf bytes.Buffer
	err := newReportTemplate.Execute(&buf, newReportView{
		Reporter:     reporter.Username,
		Title:        r.Title,
		Status:       string(r.Status),
		Location:     r.Location,
		DashboardURL: dashboardURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render notification: %w", err)
	}
	return buf.String(), nil
}

// recipientsFor drops the reporter's own address, malformed addresses and duplicates.
func recipientsFor(emails []string, reporterEmail string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))

	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if key == "" || strings.EqualFold(e, strings.TrimSpace(reporterEmail)) || !utils.IsValidEmail(e) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	return out
}

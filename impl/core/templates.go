package core

import (
	"SchoolLicensing/entity"
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "1/2/2006"

var purchaseTemplate = template.Must(template.New("purchase").Parse(`
<h2>License Purchase Confirmation</h2>
<p>Dear {{.AdminName}},</p>
<p>Thank you for your purchase! Your Trinity Capital licenses have been successfully processed.</p>

<h3>Purchase Details:</h3>
<ul>
  <li><strong>School:</strong> {{.SchoolName}}</li>
  <li><strong>District:</strong> {{.DistrictName}}</li>
  <li><strong>Teacher Licenses:</strong> {{.TeacherLicenses}}</li>
  <li><strong>Student Licenses:</strong> {{.StudentLicenses}}</li>
  <li><strong>Purchase Date:</strong> {{.PurchaseDate}}</li>
</ul>

<p>Your access codes will be available in your admin dashboard within 24 hours.</p>
<p>If you have any questions, please don't hesitate to contact our support team.</p>

<p>Best regards,<br>The Trinity Capital Team</p>
`))

var trialTemplate = template.Must(template.New("trial").Parse(`
<h2>Free Trial Activated!</h2>
<p>Dear {{.AdminName}},</p>
<p>Congratulations! Your Trinity Capital free trial has been successfully activated.</p>

<h3>Trial Details:</h3>
<ul>
  <li><strong>School:</strong> {{.SchoolName}}</li>
  <li><strong>Teacher Licenses:</strong> {{.TeacherLicenses}}</li>
  <li><strong>Student Licenses:</strong> {{.StudentLicenses}}</li>
  <li><strong>Trial Duration:</strong> {{.Days}} days</li>
  <li><strong>Trial Start Date:</strong> {{.StartDate}}</li>
  <li><strong>Trial End Date:</strong> {{.EndDate}}</li>
</ul>

<h3>Next Steps:</h3>
<p>1. <strong>Distribute Teacher Codes:</strong> Visit your admin dashboard to send access codes to your teachers</p>
<p>2. <strong>Teacher Setup:</strong> Teachers will use their codes to create accounts and generate student access codes</p>
<p>3. <strong>Start Learning:</strong> Students can begin using Trinity Capital immediately</p>

<div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; margin: 20px 0; border-radius: 5px;">
  <h4>Important Trial Information:</h4>
  <ul>
    <li>Your trial expires in <strong>{{.Days}} days</strong></li>
    <li>All accounts created during the trial will have {{.Days}}-day access</li>
    <li>To continue using Trinity Capital after the trial, you'll need to purchase licenses</li>
  </ul>
</div>

<p>Ready to get started? <a href="{{.DashboardURL}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Access Your Dashboard</a></p>

<p>If you have any questions, please don't hesitate to contact our support team.</p>

<p>Best regards,<br>The Trinity Capital Team</p>
`))

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// templates are static; a failure here is a programming error
		panic(fmt.Sprintf("render %s: %v", t.Name(), err))
	}
	return buf.String()
}

func purchaseConfirmationEmail(l *entity.License) *entity.MailMessage {
	data := struct {
		AdminName, SchoolName, DistrictName, PurchaseDate string
		TeacherLicenses, StudentLicenses                  int
	}{
		AdminName:       l.AdminName,
		SchoolName:      l.SchoolName,
		DistrictName:    l.DistrictName,
		PurchaseDate:    l.PurchaseDate.Format(dateLayout),
		TeacherLicenses: l.TeacherLicenses,
		StudentLicenses: l.StudentLicenses,
	}

	return &entity.MailMessage{
		To:      l.AdminEmail,
		Subject: fmt.Sprintf("Trinity Capital - License Purchase Confirmation for %s", l.SchoolName),
		HTML:    render(purchaseTemplate, data),
	}
}

// distributionLink points the admin at the code distribution front end.
func distributionLink(base, email string, trial bool) string {
	link := fmt.Sprintf("%s?email=%s", base, url.QueryEscape(email))
	if trial {
		link += "&trial=true"
	}
	return link
}

func trialConfirmationEmail(t *entity.Trial, dashboardURL string) *entity.MailMessage {
	data := struct {
		AdminName, SchoolName, StartDate, EndDate string
		TeacherLicenses, StudentLicenses, Days    int
		DashboardURL                              string
	}{
		AdminName:       t.AdminName,
		SchoolName:      t.SchoolName,
		StartDate:       t.TrialStartDate.Format(dateLayout),
		EndDate:         t.TrialEndDate.Format(dateLayout),
		TeacherLicenses: t.TeacherLicenses,
		StudentLicenses: t.StudentLicenses,
		Days:            entity.TrialDays,
		DashboardURL:    dashboardURL,
	}

	return &entity.MailMessage{
		To:      t.AdminEmail,
		Subject: fmt.Sprintf("Trinity Capital - Free Trial Activated for %s", t.SchoolName),
		HTML:    render(trialTemplate, data),
	}
}

func distributionInstructionsEmail(p *entity.ManualPurchase, distributionURL string) *entity.MailMessage {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Thank you for your purchase of Trinity Capital licenses.\n\n")
	b.WriteString("Here are the details of your order:\n\n")
	fmt.Fprintf(&b, "School: %s\n", p.SchoolName)
	fmt.Fprintf(&b, "School District: %s\n", p.SchoolDistrict)
	fmt.Fprintf(&b, "PO Number: %s\n", p.PONumber)
	fmt.Fprintf(&b, "Student Licenses: %d\n", p.StudentQty)
	fmt.Fprintf(&b, "Teacher Licenses: %d\n", p.TeacherQty)
	fmt.Fprintf(&b, "Teacher License Total: $%s\n", p.TeacherLicenseTotal)
	fmt.Fprintf(&b, "Student License Total: $%s\n", p.StudentLicenseTotal)
	fmt.Fprintf(&b, "Total Purchase Price: $%s\n\n", p.TotalPurchasePrice)
	b.WriteString("To distribute these licenses to your teachers, please follow the instructions below:\n\n")
	fmt.Fprintf(&b, "1. Navigate to %s\n", distributionURL)
	fmt.Fprintf(&b, "2. Enter the email address you used for this purchase: %s\n", p.AdminEmail)
	b.WriteString("3. Enter each teacher's email address and click \"Send Code\"\n")
	b.WriteString("4. Repeat until the page confirms all licenses have been distributed\n\n")
	b.WriteString("If you encounter any issues or need assistance, contact us at support@trinitycapapp.com.\n\n")
	b.WriteString("Thank you for choosing Trinity Capital.\n\n")
	b.WriteString("Sincerely,\nThe Trinity Capital Team\n")

	return &entity.MailMessage{
		To:      p.AdminEmail,
		Subject: fmt.Sprintf("License Distribution Instructions for %s", p.SchoolName),
		Text:    b.String(),
	}
}

func (c *Core) teacherCodeEmail(l *entity.License, code *entity.AccessCode) *entity.TeacherCodeEmail {
	var b strings.Builder
	b.WriteString("Dear Teacher,\n\n")
	fmt.Fprintf(&b, "Welcome to Trinity Capital! Your school administrator has purchased Trinity Capital licenses for %s.\n\n", l.SchoolName)
	fmt.Fprintf(&b, "Your Teacher Access Code: %s\n\n", code.Code)
	b.WriteString("REGISTRATION INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. Go to the Trinity Capital teacher registration page: %s\n", c.links.RegistrationURL)
	fmt.Fprintf(&b, "2. Enter your basic information and your teacher access code: %s\n", code.Code)
	b.WriteString("3. Select today's date as your registration date.\n")
	b.WriteString("4. Click \"Next Step\" to complete your registration.\n\n")
	b.WriteString("LOGIN INSTRUCTIONS:\n")
	b.WriteString("- To log into the teacher dashboard, use the same username and PIN you created during registration.\n")
	fmt.Fprintf(&b, "- The teacher dashboard login page is: %s\n\n", c.links.TeacherDashboard)
	b.WriteString("AFTER LOGIN:\n")
	b.WriteString("- The teacher dashboard will guide you through setting up your classes and generating class codes for your students.\n\n")
	b.WriteString("IMPORTANT NOTES:\n")
	b.WriteString("• This code is unique to you and can only be used once\n")
	b.WriteString("• Your students will receive their own class codes from you after you register\n")
	fmt.Fprintf(&b, "• This code expires on: %s\n", code.ExpiresAt.Format(dateLayout))
	b.WriteString("• Keep this code secure and do not share it with students\n\n")
	b.WriteString("If you have any questions or need technical support, please contact:\n")
	fmt.Fprintf(&b, "- Your school administrator: %s (%s)\n", l.AdminName, l.AdminEmail)
	b.WriteString("- Trinity Capital Support Team\n\n")
	b.WriteString("Thank you for being part of the Trinity Capital educational community!\n\n")
	b.WriteString("Best regards,\nThe Trinity Capital Team\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "This email was sent on behalf of %s\n", l.SchoolName)
	fmt.Fprintf(&b, "Purchase Date: %s\n", l.PurchaseDate.Format(dateLayout))
	fmt.Fprintf(&b, "School District: %s", l.DistrictName)

	return &entity.TeacherCodeEmail{
		Code:       code.Code,
		CodeID:     code.ID,
		Subject:    fmt.Sprintf("Your Trinity Capital Teacher Access Code - %s", l.SchoolName),
		Body:       b.String(),
		SchoolName: l.SchoolName,
		AdminName:  l.AdminName,
		ExpiresAt:  code.ExpiresAt,
	}
}

func quoteEmail(q *entity.QuoteEmail) *entity.MailMessage {
	admin := q.AdminName
	if admin == "" {
		admin = "Administrator"
	}
	subject := "Quote PDF from Trinity Capital"
	if q.SchoolName != "" {
		subject += " - " + q.SchoolName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", admin)
	if q.IsBulk() {
		b.WriteString("Please find attached your requested quote for our School-Wide License.\n\n")
	} else {
		b.WriteString("Please find attached your requested quote.\n\n")
	}
	fmt.Fprintf(&b, "School: %s\nDistrict: %s\nAddress: %s\n", q.SchoolName, q.DistrictName, q.SchoolAddress)
	if q.IsBulk() {
		b.WriteString("License Type: School-Wide (Unlimited Students & Teachers)\n")
	} else {
		fmt.Fprintf(&b, "Student Licenses: %s (%s)\n", q.StudentQty, q.StudentTotal)
		fmt.Fprintf(&b, "Teacher Licenses: %s (%s)\n", q.TeacherQty, q.TeacherTotal)
	}
	fmt.Fprintf(&b, "Total: %s\nQuote ID: %s\nQuote Date: %s\n\n", q.GrandTotal, q.QuoteID, q.QuoteDate)
	if q.IsBulk() {
		b.WriteString("The School-Wide License includes:\n")
		b.WriteString("• Unlimited student access\n")
		b.WriteString("• Unlimited teacher licenses\n")
		b.WriteString("• Priority support and training\n")
		b.WriteString("• Custom implementation assistance\n")
		b.WriteString("• Multi-year discount options available\n\n")
	}
	b.WriteString("Note: W-9 tax form is available upon request.\n\n")
	b.WriteString("Thank you for your interest in Trinity Capital.")

	return &entity.MailMessage{
		To:      q.RecipientEmail,
		Subject: subject,
		Text:    b.String(),
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

package pdf

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"regexp"
	"strings"

	"github.com/skumar93/folio/models"
)

// Watermark tile rendered behind BASIC-tier resumes.
const draftWatermarkSVG = `<svg xmlns='http://www.w3.org/2000/svg' width='400' height='400'><text x='50%' y='50%' font-size='60' font-weight='bold' fill='rgba(0,0,0,0.05)' transform='rotate(-45, 200, 200)' text-anchor='middle' font-family='Arial'>DRAFT</text></svg>`

const resumeHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 12mm 14mm; }
  body {
    font-family: Helvetica, Arial, sans-serif;
    font-size: 11px;
    color: #1e293b;
    margin: 0;
    {{if .Watermark}}background-image: url("{{.WatermarkURL}}"); background-repeat: repeat;{{end}}
  }
  .header { display: flex; align-items: center; gap: 16px; }
  .header img { width: 72px; height: 72px; border-radius: 50%; object-fit: cover; }
  .name { font-size: 22px; font-weight: bold; }
  .title { font-size: 13px; color: #475569; }
  .contact { margin-left: auto; text-align: right; font-size: 10px; color: #475569; }
  .divider { border-bottom: 2px solid #334155; margin: 10px 0; }
  .section-title { font-size: 13px; font-weight: bold; text-transform: uppercase; letter-spacing: 1px; margin: 12px 0 6px; color: #334155; }
  .entry { margin-bottom: 8px; page-break-inside: avoid; }
  .entry-head { display: flex; justify-content: space-between; }
  .entry-title { font-weight: bold; }
  .entry-subtitle { color: #475569; }
  .date { font-size: 10px; color: #64748b; }
  .subheading { font-weight: bold; font-size: 10px; margin-top: 3px; }
  .skills span { display: inline-block; border: 1px solid #cbd5e1; border-radius: 10px; padding: 2px 8px; margin: 0 4px 4px 0; font-size: 10px; }
</style>
</head>
<body>
  <div class="header">
    {{if .Doc.ProfilePic}}<img src="{{.Doc.ProfilePic}}" alt="{{.Doc.Name}}">{{end}}
    <div>
      <div class="name">{{.Doc.Name}}</div>
      <div class="title">{{.Doc.Title}}</div>
    </div>
    <div class="contact">
      {{with .Doc.Contact.Email}}<div>&#9993; {{.}}</div>{{end}}
      {{with .Doc.Contact.Phone}}<div>&#9742; {{.}}</div>{{end}}
      {{with .Doc.Contact.LinkedIn}}<div>{{.}}</div>{{end}}
      {{with .Doc.Contact.GitHub}}<div>{{.}}</div>{{end}}
    </div>
  </div>
  <div class="divider"></div>

  {{with .Doc.About}}
  <div class="section-title">Professional Summary</div>
  <div>{{.}}</div>
  {{end}}

  {{if .Doc.Work}}
  <div class="section-title">Work Experience</div>
  {{range .Doc.Work}}
  <div class="entry">
    <div class="entry-head">
      <div>
        <div class="entry-title">{{.Company}}</div>
        <div class="entry-subtitle">{{.Role}}</div>
      </div>
      {{with .Date}}<div class="date">{{.}}</div>{{end}}
    </div>
    {{if eq .Kind "detailed"}}
      {{with .Responsibilities}}<div class="subheading">Roles &amp; Responsibilities</div><div>{{.}}</div>{{end}}
      {{with .Accomplishments}}<div class="subheading">Accomplishments</div><div>{{.}}</div>{{end}}
    {{else}}
      {{with .Description}}<div>{{.}}</div>{{end}}
    {{end}}
  </div>
  {{end}}
  {{end}}

  {{if .Doc.Education}}
  <div class="section-title">Education</div>
  {{range .Doc.Education}}
  <div class="entry">
    <div class="entry-head">
      <div>
        <div class="entry-title">{{.Degree}}</div>
        <div class="entry-subtitle">{{.School}}</div>
      </div>
      {{with .Date}}<div class="date">{{.}}</div>{{end}}
    </div>
    {{with .Description}}<div>{{.}}</div>{{end}}
  </div>
  {{end}}
  {{end}}

  {{if .Doc.Skills}}
  <div class="section-title">Skills</div>
  <div class="skills">{{range .Doc.Skills}}<span>{{.Name}}</span>{{end}}</div>
  {{end}}
</body>
</html>`

var resumeTemplate = template.Must(template.New("resume").Parse(resumeHTML))

type resumeData struct {
	Doc          models.PortfolioDocument
	Watermark    bool
	WatermarkURL template.URL
}

// RenderHTML produces the printable resume markup for a portfolio.
// BASIC-tier accounts get a repeating DRAFT watermark.
func RenderHTML(doc models.PortfolioDocument, watermark bool) (string, error) {
	data := resumeData{Doc: doc, Watermark: watermark}
	if watermark {
		encoded := base64.StdEncoding.EncodeToString([]byte(draftWatermarkSVG))
		data.WatermarkURL = template.URL("data:image/svg+xml;base64," + encoded)
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var filenameWhitespace = regexp.MustCompile(`\s+`)

// FileName builds the download name: "Jane Doe" -> "Jane_Doe_Resume.pdf".
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Resume.pdf"
	}
	return filenameWhitespace.ReplaceAllString(name, "_") + "_Resume.pdf"
}

// Package templates renders the per-requester HTML status digest.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/protolab/erf-digest/internal/core"
	"github.com/protolab/erf-digest/internal/utils"
	"go.uber.org/zap"
)

// Display tweaks carried over from the production digest.
var columnDisplayNames = map[string]string{
	"PO Due Date": "Commit Date",
}

var statusRowColors = map[string]string{
	"On order": "#FFF3CD",
	"Received": "#D4EDDA",
}

// Per-column truncation limits for table cells.
const (
	remarksCellLimit = 150
	shortCellLimit   = 20
	defaultCellLimit = 50
)

// Config holds the digest content settings.
type Config struct {
	// SubjectTemplate is a fmt template with one %d verb for the item count.
	SubjectTemplate string
	StatusColumn    string
	TargetStatuses  []string
	DisplayColumns  []string
	TeamName        string
	ContactLines    []string
}

// Renderer builds the HTML digest for one requester group. It implements
// core.DigestRenderer.
type Renderer struct {
	cfg    Config
	tmpl   *template.Template
	logger *zap.Logger
}

// NewRenderer creates a digest renderer, parsing the embedded template once.
func NewRenderer(cfg Config, logger *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("digest").Parse(digestTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest template: %w", err)
	}
	return &Renderer{cfg: cfg, tmpl: tmpl, logger: logger}, nil
}

type tableCell struct {
	Value string
	Style template.CSS
}

type tableRow struct {
	Bg    template.CSS
	Cells []tableCell
}

type statusCount struct {
	Status string
	Count  int
}

type digestData struct {
	Requester    string
	StatusCounts []statusCount
	Total        int
	Headers      []tableCell
	Rows         []tableRow
	Legend       []statusCount
	ContactLines []string
	TeamName     string
	GeneratedAt  string
}

// Render produces the subject and HTML body for one requester group.
func (r *Renderer) Render(group core.RequesterGroup) (*core.Message, error) {
	columns := r.availableColumns(group)

	data := digestData{
		Requester:    group.Key,
		Total:        len(group.Rows),
		ContactLines: r.cfg.ContactLines,
		TeamName:     r.cfg.TeamName,
		GeneratedAt:  time.Now().Format("2006-01-02 15:04:05"),
	}

	for _, status := range r.cfg.TargetStatuses {
		count := 0
		for _, row := range group.Rows {
			if row.Get(r.cfg.StatusColumn) == status {
				count++
			}
		}
		data.StatusCounts = append(data.StatusCounts, statusCount{Status: status, Count: count})
		if _, ok := statusRowColors[status]; ok {
			data.Legend = append(data.Legend, statusCount{Status: status})
		}
	}

	for _, col := range columns {
		data.Headers = append(data.Headers, tableCell{
			Value: displayName(col),
			Style: headerStyle(col),
		})
	}

	for i, row := range group.Rows {
		bg := "#f9f9f9"
		if i%2 == 1 {
			bg = "#ffffff"
		}
		if c, ok := statusRowColors[row.Get(r.cfg.StatusColumn)]; ok {
			bg = c
		}

		tr := tableRow{Bg: template.CSS("background-color: " + bg + ";")}
		for _, col := range columns {
			tr.Cells = append(tr.Cells, tableCell{
				Value: cellValue(row, col),
				Style: cellStyle(col),
			})
		}
		data.Rows = append(data.Rows, tr)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render digest for %q: %w", group.Key, err)
	}

	return &core.Message{
		Subject: r.subject(len(group.Rows)),
		Body:    buf.String(),
	}, nil
}

func (r *Renderer) subject(total int) string {
	if strings.Contains(r.cfg.SubjectTemplate, "%d") {
		return fmt.Sprintf(r.cfg.SubjectTemplate, total)
	}
	return r.cfg.SubjectTemplate
}

// availableColumns filters the configured display columns to those present
// in the group's rows.
func (r *Renderer) availableColumns(group core.RequesterGroup) []string {
	var out []string
	for _, col := range r.cfg.DisplayColumns {
		for _, row := range group.Rows {
			if _, ok := row[col]; ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func displayName(col string) string {
	if name, ok := columnDisplayNames[col]; ok {
		return name
	}
	return col
}

func cellValue(row core.Row, col string) string {
	v := strings.TrimSpace(utils.SanitizeUTF8(row.Get(col)))
	if v == "" {
		return "N/A"
	}
	switch col {
	case "Expeditor Remarks":
		return utils.TruncateCell(v, remarksCellLimit)
	case "ERF Nr", "ERF Itm Qty", "Unit":
		return utils.TruncateCell(v, shortCellLimit)
	default:
		return utils.TruncateCell(v, defaultCellLimit)
	}
}

func headerStyle(col string) template.CSS {
	width := "width: 120px;"
	switch col {
	case "Expeditor Remarks":
		width = "width: 200px;"
	case "ERF Nr", "Unit", "ERF Itm Qty":
		width = "width: 80px;"
	case "Material", "Material Description":
		width = "width: 150px;"
	}
	return template.CSS("text-align: left; padding: 8px; border: 1px solid #ddd; " + width)
}

func cellStyle(col string) template.CSS {
	switch col {
	case "Expeditor Remarks":
		return "padding: 6px; border: 1px solid #ddd; text-align: left; word-wrap: break-word; white-space: normal; max-width: 200px;"
	case "ERF Nr", "ERF Itm Qty", "Unit":
		return "padding: 6px; border: 1px solid #ddd; text-align: center;"
	default:
		return "padding: 6px; border: 1px solid #ddd; text-align: left;"
	}
}

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
.summary { background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 5px solid #4CAF50; }
.notice { background: #fff3cd; border: 1px solid #ffeaa7; border-radius: 5px; padding: 15px; margin: 20px 0; border-left: 5px solid #f39c12; }
.footer { margin-top: 40px; font-size: 12px; color: #666; border-top: 1px solid #ddd; padding-top: 15px; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; table-layout: fixed; font-size: 12px; }
th { background-color: #4CAF50; color: white; font-weight: bold; }
</style>
</head>
<body>
<div class="header"><h2>Hello {{.Requester}},</h2></div>
<p>This is an automated status update for your ERF items.</p>
<div class="summary">
<h3>Summary</h3>
{{range .StatusCounts}}<p>&bull; Items {{.Status}}: {{.Count}}</p>
{{end}}<p>&bull; Total Items: {{.Total}}</p>
</div>
<p>Please find the detailed information in the table below:</p>
<table border="1" cellpadding="8" cellspacing="0">
<thead><tr>
{{range .Headers}}<th style="{{.Style}}">{{.Value}}</th>
{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr style="{{.Bg}}">
{{range .Cells}}<td style="{{.Style}}">{{.Value}}</td>
{{end}}</tr>
{{end}}</tbody>
</table>
<p style="font-size: 11px; color: #666;"><strong>Legend:</strong>
<span style="background-color: #FFF3CD; padding: 2px 4px;">On Order</span>
<span style="background-color: #D4EDDA; padding: 2px 4px;">Received</span></p>
<p>If you have any questions or concerns regarding these items, please don't hesitate to reach out.</p>
{{if .ContactLines}}<div class="notice">
<h3>Important Notice</h3>
{{range .ContactLines}}<p>&bull; {{.}}</p>
{{end}}</div>
{{end}}<div class="footer">
<p><strong>Best regards,<br>{{.TeamName}}</strong></p>
<p><em>This is an automated email generated on {{.GeneratedAt}}</em></p>
</div>
</body>
</html>
`

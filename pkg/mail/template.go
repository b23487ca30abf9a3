package mail

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\d+[.)]\s*`)

// scoreColor picks the accent colour for a match score: green for a strong
// match, amber for a middling one, red below that.
func scoreColor(score int) string {
	switch {
	case score >= 75:
		return "#22c55e"
	case score >= 50:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}

// splitSuggestions breaks the model's suggestion text into list items,
// dropping blank lines and any numbering the model added. The email renders
// its own ordered list.
func splitSuggestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = leadingNumber.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func buildMatchBody(em MatchEmail, hasAttachment bool) string {
	color := scoreColor(em.MatchScore)
	title := html.EscapeString(em.JobTitle)
	company := html.EscapeString(em.Company)

	var b strings.Builder
	b.WriteString(`<body style="margin:0;padding:0;background:#0d1117;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">`)
	b.WriteString(`<div style="max-width:640px;margin:0 auto;padding:24px 16px;">`)
	b.WriteString(`<div style="background:#161b22;border:1px solid #30363d;border-radius:14px;overflow:hidden;">`)

	b.WriteString(`<div style="background:linear-gradient(135deg,#0f3460,#e94560);padding:28px 32px;">`)
	b.WriteString(`<h1 style="margin:0;color:#ffffff;font-size:22px;">⚡ ResumeFlow AI</h1>`)
	b.WriteString(`<p style="margin:6px 0 0;color:rgba(255,255,255,0.85);font-size:14px;">New job match found — your personalised documents are ready</p>`)
	b.WriteString(`</div>`)

	b.WriteString(`<div style="padding:28px 32px;">`)

	fmt.Fprintf(&b, `<div style="background:#21262d;border-left:4px solid %s;border-radius:8px;padding:18px 22px;margin-bottom:24px;">`, color)
	b.WriteString(`<div style="font-size:12px;text-transform:uppercase;letter-spacing:1px;color:#8b949e;">Match Score</div>`)
	fmt.Fprintf(&b, `<div style="font-size:36px;font-weight:800;color:%s;">%d%%</div>`, color, em.MatchScore)
	fmt.Fprintf(&b, `<div style="color:#e6edf3;font-size:16px;font-weight:600;margin-top:4px;">%s</div>`, title)
	fmt.Fprintf(&b, `<div style="color:#8b949e;font-size:14px;">%s</div>`, company)
	b.WriteString(`</div>`)

	if em.JobURL != "" {
		b.WriteString(`<div style="text-align:center;margin-bottom:24px;">`)
		fmt.Fprintf(&b, `<a href="%s" style="display:inline-block;background:linear-gradient(135deg,#0f3460,#e94560);color:#ffffff;text-decoration:none;padding:14px 32px;border-radius:10px;font-weight:600;font-size:15px;">🔗 View Job Posting ↗</a>`,
			html.EscapeString(em.JobURL))
		b.WriteString(`</div>`)
	}

	if suggestions := splitSuggestions(em.Suggestions); len(suggestions) > 0 {
		b.WriteString(`<h3 style="color:#e94560;font-size:13px;text-transform:uppercase;letter-spacing:1px;border-bottom:1px solid #30363d;padding-bottom:8px;">✏️ Resume Edit Suggestions</h3>`)
		b.WriteString(`<p style="color:#8b949e;font-size:14px;">Make these targeted changes to maximise your chances for this specific role:</p>`)
		b.WriteString(`<ol style="color:#e6edf3;font-size:14px;line-height:1.6;padding-left:20px;">`)
		for _, s := range suggestions {
			fmt.Fprintf(&b, `<li style="margin-bottom:10px;">%s</li>`, html.EscapeString(s))
		}
		b.WriteString(`</ol>`)
	}

	if hasAttachment {
		b.WriteString(`<div style="background:#21262d;border:1px solid #30363d;border-radius:8px;padding:14px 18px;color:#8b949e;font-size:13px;">`)
		b.WriteString(`📝 <strong style="color:#e6edf3;">Cover_Letter.pdf</strong> is attached — personalised for this role by Gemini.`)
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	b.WriteString(`<div style="padding:18px 32px;border-top:1px solid #30363d;text-align:center;color:#484f58;font-size:11px;">Sent automatically by ResumeFlow AI</div>`)
	b.WriteString(`</div></div></body>`)
	return b.String()
}

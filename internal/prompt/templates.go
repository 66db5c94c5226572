package prompt

import (
	"strings"
	"text/template"
)

// The layout is consumed by both providers; blank-line separators between sections are kept exact.
const systemTemplateText = `{{.Persona}}{{if .Context}}

**User Context:**
{{with .Context}}{{if .SubscriptionTier}}- Subscription Tier: {{.SubscriptionTier}}
{{end}}{{if .PartnerName}}- Partner Name: {{.PartnerName}}
{{end}}{{if .ActiveGoals}}- Active Goals: {{goalTitles .ActiveGoals}}
{{end}}{{if .UpcomingMilestones}}- Upcoming Milestones: {{milestoneTitles .UpcomingMilestones}}
{{end}}{{end}}{{end}}{{if .Knowledge}}

**Relevant Platform Information:**
{{.Knowledge}}
{{end}}

**Important:** Respond in {{upper .Language}} language.`

var systemTemplate = template.Must(template.New("system").Funcs(template.FuncMap{
	"upper":           strings.ToUpper,
	"goalTitles":      goalTitles,
	"milestoneTitles": milestoneTitles,
}).Parse(systemTemplateText))

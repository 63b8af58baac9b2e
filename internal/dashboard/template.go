package dashboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(c.Query(key))
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<title>EgressWatch</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; margin: 1rem 0; }
td, th { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
.critical { color: #b00; font-weight: bold; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>EgressWatch</h1>
{{if .Run}}
<p>Latest run <code>{{.Run.ID}}</code> &mdash; {{.Run.Status}},
{{.Run.SeriesTotal}} series analyzed, projected
<strong>${{printf "%.2f" .TotalProjectedCost}}/month</strong></p>

<h2>Trends</h2>
<table>
<tr><th>Direction</th><th>Count</th></tr>
{{range $dir, $n := .TrendsByDirection}}<tr><td>{{$dir}}</td><td>{{$n}}</td></tr>{{end}}
</table>

<h2>Anomalies</h2>
<table>
<tr><th>Severity</th><th>Count</th></tr>
{{range $sev, $n := .AnomaliesBySeverity}}<tr><td {{if eq $sev "critical"}}class="critical"{{end}}>{{$sev}}</td><td>{{$n}}</td></tr>{{end}}
</table>

<h2>Recommendations</h2>
<table>
<tr><th>Category</th><th>Count</th></tr>
{{range $cat, $n := .RecsByCategory}}<tr><td>{{$cat}}</td><td>{{$n}}</td></tr>{{end}}
</table>
{{else}}
<p class="muted">No runs yet.</p>
{{end}}
</body>
</html>`

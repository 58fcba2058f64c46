package server

import "html/template"

const pageTemplateName = "index.html"

var pageTemplate = template.Must(template.New(pageTemplateName).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>ポーカートーナメント一覧</title>
<style>
body { font-family: sans-serif; margin: 0 1rem; }
.toggles a { display: inline-block; margin: 0 .25rem .25rem 0; padding: .2rem .6rem; border: 1px solid #999; border-radius: 1rem; text-decoration: none; color: inherit; }
.toggles a.active { background: #333; color: #fff; }
table.board { border-collapse: collapse; width: 100%; }
table.board th, table.board td { border-bottom: 1px solid #ddd; padding: .3rem; text-align: left; }
table.board th a { color: inherit; }
tr.late-reg-expired { color: #999; }
tr.hl-mult-50plus { background: #ffd6d6; }
tr.hl-mult-40plus { background: #ffe4c4; }
tr.hl-mult-30plus { background: #fff3b0; }
tr.hl-mult-20plus { background: #e6f7d4; }
tr.hl-mult-10to19 { background: #e8f1ff; }
.cards { display: none; }
.card { border: 1px solid #ddd; border-radius: .5rem; padding: .5rem; margin-bottom: .5rem; }
.badge { display: inline-block; padding: 0 .4rem; border-radius: .3rem; background: #eee; }
.error { color: #b00; }
@media (max-width: 720px) { table.board { display: none; } .cards { display: block; } }
</style>
</head>
<body>
<h1>ポーカートーナメント一覧</h1>
{{if .DebugTime}}<p class="debug-time">debug_time: {{.Now}}</p>{{end}}

<nav class="toggles tabs">
{{range .Tabs}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
</nav>
<div class="toggles areas">
{{range .Areas}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
</div>
<div class="toggles titles">
{{range .Titles}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
</div>
<div class="toggles mults">
{{range .Mults}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
<a class="sort-mult{{if .SortMult.Active}} active{{end}}" href="{{.SortMult.Href}}">{{.SortMult.Label}}</a>
<a class="show-late{{if .ShowLate.Active}} active{{end}}" href="{{.ShowLate.Href}}">{{.ShowLate.Label}}</a>
</div>

<form class="search" method="get" action="/">
{{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
<input type="search" name="search" value="{{.Search}}" placeholder="検索">
<button type="submit">検索</button>
</form>

<p class="links"><a href="{{.CalendarHref}}">カレンダー</a> <a href="{{.APIHref}}">JSON</a></p>

{{if .Error}}
<p class="error">{{.Error}}</p>
{{else}}
<p class="counter">{{.Counter}}</p>
<table class="board">
<thead><tr>
{{range .Columns}}<th><a href="{{.Href}}">{{.Label}}{{.Arrow}}</a></th>{{end}}
<th>賞金</th>
</tr></thead>
<tbody>
{{range .Rows}}<tr class="{{.Highlight}}" data-index="{{.Index}}">
<td>{{.DateText}}</td>
<td>{{.StartText}}</td>
<td>{{.LateText}}</td>
<td>{{if .Link}}<a href="{{.Link}}" rel="noopener" target="_blank">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
<td><a class="shop" href="{{.ShopHref}}">{{.ShopName}}</a></td>
<td>{{.Area}}</td>
<td>{{.EntryFeeText}}</td>
<td>{{.AddOnText}}</td>
<td>{{.GuaranteedText}}</td>
<td>{{.TotalPrizeText}}</td>
<td>{{.MultiplierText}}</td>
<td>{{.PrizeSummary}}</td>
</tr>
{{else}}<tr class="no-data"><td colspan="12">{{$.NoData}}</td></tr>
{{end}}</tbody>
</table>

<div class="cards">
{{range .Rows}}<div class="card {{.Highlight}}">
<div class="card-head">{{.CardDate}} {{.CardStart}}{{if .CardLate}} <span class="late">{{.CardLate}}</span>{{end}}</div>
<div class="card-title">{{.CardTitle}}</div>
<div class="card-shop"><a class="shop" href="{{.ShopHref}}">{{.ShopName}}</a> {{.Area}}</div>
{{if .CardFee}}<div class="card-fee">{{.CardFee}}</div>{{end}}
{{if .MultBadge}}<span class="badge {{.MultBadgeClass}}">{{.MultBadge}}</span>{{end}}
{{if .PrizeBadge}}<span class="badge prize">{{.PrizeBadge}}</span>{{end}}
</div>
{{else}}<p class="no-data">{{$.NoData}}</p>
{{end}}</div>
{{end}}
</body>
</html>
`

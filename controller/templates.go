package controller

import "html/template"

const pageHead = `{{define "head"}}<head>
    <title>{{.}}</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0-alpha1/dist/css/bootstrap.min.css" rel="stylesheet">
</head>{{end}}`

const indexPage = `{{define "index.html"}}<!DOCTYPE html>
<html>
{{template "head" "Client Search Interface"}}
<body>
<div class="container mt-5">
    <h1 class="mb-4">Client Search Interface</h1>
    <div class="card"><div class="card-body">
        <form action="/search" method="post">
            <div class="mb-3">
                <label for="query" class="form-label">Search Query</label>
                <input type="text" class="form-control" id="query" name="query" placeholder="Name, email, phone or address">
            </div>
            <div class="mb-3">
                <label for="columns" class="form-label">Columns (comma separated)</label>
                <input type="text" class="form-control" id="columns" name="columns" list="known-columns">
                <datalist id="known-columns">{{range .Columns}}<option value="{{.}}">{{end}}</datalist>
            </div>
            <div class="row mb-3">
                <div class="col"><label class="form-label" for="start_date">From</label><input type="date" class="form-control" id="start_date" name="start_date"></div>
                <div class="col"><label class="form-label" for="end_date">To</label><input type="date" class="form-control" id="end_date" name="end_date"></div>
            </div>
            <div class="form-check mb-3">
                <input class="form-check-input" type="checkbox" id="fuzzy" name="fuzzy" checked>
                <label class="form-check-label" for="fuzzy">Enable fuzzy matching</label>
            </div>
            <div class="form-check mb-3">
                <input class="form-check-input" type="checkbox" id="extract_pattern" name="extract_pattern" value="true">
                <label class="form-check-label" for="extract_pattern">Extract email, phone or name from the query</label>
            </div>
            <input type="hidden" name="html_output" value="true">
            <button type="submit" class="btn btn-primary">Search</button>
        </form>
    </div></div>
    <div class="mt-3"><p>Available datasets: {{range $i, $f := .Files}}{{if $i}}, {{end}}{{$f}}{{end}}</p></div>
</div>
</body>
</html>{{end}}`

const resultsPage = `{{define "results.html"}}<!DOCTYPE html>
<html>
{{template "head" (printf "Search Results: %s" .Query)}}
<body>
<div class="container mt-3">
    <h1>Search Results</h1>
    <p>Found {{len .Results}} results for: <strong>{{.Query}}</strong></p>
    <a href="/" class="btn btn-primary mb-3">Back to Search</a>
    <div class="results">
    {{- $total := len .Results}}
    {{- range $i, $r := .Results}}
        <div class="card mb-3">
            <div class="card-header d-flex justify-content-between">
                <span>Result {{inc $i}} of {{$total}}</span>
                <span class="text-muted small">Source: {{$r.SourceFile}}</span>
            </div>
            <div class="card-body">
                {{- with $r.MatchScore}}<p class="badge bg-info">Match Score: {{.}}%</p><br>{{end}}
                {{- with $r.MatchingValue}}<p class="alert alert-warning p-1">Matching value: {{.}}</p>{{end}}
                <table class="table table-striped"><tbody>
                {{- range $r.Fields}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>{{end}}
                </tbody></table>
            </div>
        </div>
    {{- end}}
    </div>
</div>
</body>
</html>{{end}}`

const errorPage = `{{define "error.html"}}<!DOCTYPE html>
<html>
{{template "head" "Search Error"}}
<body>
<div class="container mt-5">
    <div class="alert alert-danger">
        <h4>Error performing search</h4>
        <pre>{{.Error}}</pre>
    </div>
    <a href="/" class="btn btn-primary">Back to Search</a>
</div>
</body>
</html>{{end}}`

// Templates parses the HTML pages served by the router.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	return template.Must(template.New("pages").Funcs(funcs).Parse(pageHead + indexPage + resultsPage + errorPage))
}

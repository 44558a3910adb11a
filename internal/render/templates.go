package render

import "html/template"

type lessonPage struct {
	SiteTitle    string
	Title        string
	Description  string
	Body         template.HTML
	LastModified string
	HomeHref     string
}

type indexEntry struct {
	Title  string
	Href   string
	Weight int
	Tags   []string
}

type indexPage struct {
	SiteTitle   string
	Description string
	Lessons     []indexEntry
}

var lessonTemplate = template.Must(template.New("lesson").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.SiteTitle}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
pre { background: #f6f8fa; padding: 0.8rem; overflow-x: auto; border-radius: 4px; }
code { font-family: ui-monospace, monospace; }
nav { font-size: 0.9rem; }
footer { margin-top: 3rem; font-size: 0.8rem; color: #666; }
</style>
</head>
<body>
<nav><a href="{{.HomeHref}}">{{.SiteTitle}}</a></nav>
<main>
{{.Body}}
</main>
<footer>
{{- if .LastModified}}
<p>Last modified {{.LastModified}}</p>
{{- end}}
</footer>
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.SiteTitle}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
</style>
</head>
<body>
<h1>{{.SiteTitle}}</h1>
{{- if .Description}}
<p>{{.Description}}</p>
{{- end}}
<ul>
{{- range .Lessons}}
<li><a href="{{.Href}}">{{.Title}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

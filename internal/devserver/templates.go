package devserver

import "html/template"

type editData struct {
	Page   Page
	Exists bool
}

type pageData struct {
	Page   Page
	Exists bool
	HTML   string
}

func (d pageData) Rendered() template.HTML { return template.HTML(d.HTML) } // #nosec G203 goldmark escapes raw HTML by default

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Page.Title}}</title></head>
<body>
<div class="wrap">
<h1 class="title">{{.Page.Title}}</h1>
{{if .Exists}}{{.Rendered}}{{else}}<p class="missing">This page does not exist yet.</p>{{end}}
</div>
</body></html>
`))

var editTemplate = template.Must(template.New("edit").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Page.Title}} (edit)</title></head>
<body>
<div class="wrap">
<h1 class="title">{{.Page.Title}}</h1>
<ul class="editor-tab">
<li class="tab plain active" data-name="plain"><a href="#plain">Plain editor</a></li>
</ul>
<ul class="editor-content">
<li class="content plain active" data-name="plain">
<form class="editform" action="" method="post">
<input type="hidden" name="revision" value="{{.Page.Revision}}">
<textarea name="body">
{{.Page.Body}}</textarea>
<input type="hidden" name="preview" value="0">
<input type="text" name="comment" class="comment" placeholder="Comment" value="">
<input type="button" class="btn-preview" value="Preview">
<input type="submit" value="Save">
</form>
</li>
</ul>
{{if .Exists}}<form class="deleteform" action="?_method=DELETE" method="post">
<input type="button" class="btn-delete" value="Delete">
</form>{{end}}
<div class="preview" style="display:none"><div class="body"></div></div>
</div>
</body></html>
`))

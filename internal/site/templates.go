package site

// shellTemplates holds the header/footer shell and both content pages.
// Every page is "header", a body, then "footer".
const shellTemplates = `
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="description" content="{{.Site.Description}}">
  {{with .Site.Author}}<meta name="author" content="{{.}}">{{end}}
  {{with .BuildID}}<meta name="generator" content="docsite {{.}}">{{end}}
  <link href="https://fonts.googleapis.com/css?family=Lato:300,400" rel="stylesheet" type="text/css">
  <link href="https://fonts.googleapis.com/css?family=Lekton:400,700" rel="stylesheet" type="text/css">
  <link href="https://netdna.bootstrapcdn.com/font-awesome/4.0.3/css/font-awesome.css" rel="stylesheet">
  <link rel="shortcut icon" href="images/icon.png">
  <link href="https://maxcdn.bootstrapcdn.com/bootstrap/3.2.0/css/bootstrap.min.css" rel="stylesheet" type="text/css">
  <link href="style.css" rel="stylesheet" type="text/css">
  <script src="https://ajax.googleapis.com/ajax/libs/jquery/2.1.1/jquery.min.js"></script>
  <script src="https://maxcdn.bootstrapcdn.com/bootstrap/3.2.0/js/bootstrap.min.js"></script>
</head>
<body>
  <nav class="navbar navbar-fixed-top">
    <div class="container">
      <div class="navbar-header">
        <a type="button" class="navbar-toggle" data-toggle="collapse" data-target=".navbar-collapse">
          <span class="sr-only">Toggle navigation</span>
          <span class="icon-bar"></span>
          <span class="icon-bar"></span>
          <span class="icon-bar"></span>
        </a>
        <a class="navbar-brand" href="index.html">{{.Site.SiteName}}</a>
      </div>
      <div class="collapse navbar-collapse">
        <ul class="nav navbar-nav">
          {{with .Site.Downloads}}<li><a href="{{.}}" target="_blank">Downloads</a></li>{{end}}
          <li class="dropdown">
            <a href="documentation.html" class="dropdown-toggle" data-toggle="dropdown">Documentation <b class="caret"></b></a>
            <ul class="dropdown-menu">
              {{range .Groups}}<li><a href="documentation.html#{{.Anchor}}">{{.Label}}</a></li>
              {{end}}
            </ul>
          </li>
          {{if .Site.Community}}<li class="dropdown">
            <a href="#" class="dropdown-toggle" data-toggle="dropdown">Community <b class="caret"></b></a>
            <ul class="dropdown-menu">
              {{range .Site.Community}}<li><a href="{{.URL}}" target="_blank">{{.Label}}</a></li>
              {{end}}
            </ul>
          </li>{{end}}
        </ul>
      </div>
    </div>
  </nav>
{{end}}

{{define "footer"}}
  <footer class="footer">
    <div class="container">
      <p class="text-muted">{{.Site.SiteName}}</p>
    </div>
  </footer>
  {{if .LiveReload}}<script>
  (function() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws/reload");
    ws.onmessage = function() { location.reload(); };
  })();
  </script>{{end}}
</body>
</html>
{{end}}

{{define "index"}}{{template "header" .}}
<div id="intro">
  <div class="jumbotron">
    <div class="container">
      <div class="row">
        {{with .Site.Logo}}<div class="col-md-6 col-md-offset-1">
          <img class="img-responsive" src="{{.}}" alt="{{$.Site.SiteName}}">
        </div>{{end}}
        <div class="col-md-10 col-md-offset-1">
          <p class="lead">{{.Site.Lead}}</p>
        </div>
      </div>
    </div>
  </div>
</div>
<div id="features">
  <div class="container">
    {{range $i, $f := .Features}}<div class="row{{if $i}} feature-row{{end}}">
      {{if $f.ImageLeft}}{{template "feature-image" $f}}{{template "feature-text" $f}}{{else}}{{template "feature-text" $f}}{{template "feature-image" $f}}{{end}}
    </div>
    {{end}}
  </div>
</div>
{{template "footer" .}}{{end}}

{{define "feature-image"}}<div class="col-md-5 feature-box">{{with .Image}}<img class="img-responsive" src="{{.}}" alt="">{{end}}</div>{{end}}
{{define "feature-text"}}<div class="col-md-6">
        <p class="feature-header">{{.Header}}</p>
        <div class="feature-body">{{.Body}}</div>
      </div>{{end}}

{{define "documentation"}}{{template "header" .}}
<div class="container documentation">
  {{range .Groups}}
  <a class="anchor" name="{{.Anchor}}"></a>
  <h1>{{.Title}}</h1>
  {{range $i, $s := .Sections}}{{if $i}}
  <hr/>
  {{end}}
  <div id="{{$s.ID}}">{{$s.Content}}</div>
  {{end}}
  {{end}}
</div>
{{template "footer" .}}{{end}}
`

// cssContent is the stylesheet written next to the generated pages.
const cssContent = `body {
  font-family: 'Lato', sans-serif;
  padding-top: 70px;
}

.navbar {
  background-color: #25282b;
  border-bottom: 1px solid #000;
}

.navbar a, .navbar-brand {
  color: #eff7f0;
}

#intro .jumbotron {
  background-color: #f8f9fa;
}

#features {
  padding: 40px 0;
}

.feature-row {
  margin-top: 50px;
  padding-top: 50px;
  border-top: 1px solid #dee2e6;
}

.feature-header {
  font-size: 1.6em;
  font-weight: 400;
}

.documentation {
  min-height: 800px;
}

a.anchor {
  display: block;
  position: relative;
  top: -70px;
  visibility: hidden;
}

pre, code {
  font-family: 'Lekton', monospace;
}

.doc-missing {
  color: #868e96;
  font-style: italic;
}

.footer {
  margin-top: 40px;
  padding: 20px 0;
  border-top: 1px solid #dee2e6;
}
`

// Stylesheet returns the site stylesheet.
func Stylesheet() string { return cssContent }

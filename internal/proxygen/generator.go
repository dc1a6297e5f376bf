package proxygen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// Header marks files written by nasc-proxygen.
const Header = "// Code generated by nasc-proxygen. DO NOT EDIT."

var fileTemplate = template.Must(template.New("proxies").Parse(Header + `

package {{.Name}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{range .Interfaces}}{{$proxy := .ProxyName}}
// {{$proxy}} forwards {{.Name}} calls through a proxy.Dispatcher.
type {{$proxy}} struct{ d *proxy.Dispatcher }
{{range .Methods}}
func (p {{$proxy}}) {{.Name}}({{.Signature}}) {{.ResultList}} {
	{{if .Results}}out := {{end}}p.d.Invoke("{{.Name}}"{{.Args}})
	{{- if .Results}}
	return {{.ReturnExpr}}
	{{- end}}
}
{{end}}{{end}}
// RegisterProxies registers the forwarding wrappers in this file with g.
func RegisterProxies(g *proxy.Generator) error {
{{- range .Interfaces}}
	if err := proxy.RegisterInterfaceProxy[{{.Name}}](g, func(d *proxy.Dispatcher) {{.Name}} {
		return {{.ProxyName}}{d: d}
	}); err != nil {
		return err
	}
{{- end}}
	return nil
}
`))

// Generate renders the wrappers for pkg as formatted Go source.
func Generate(pkg *Package) ([]byte, error) {
	if pkg == nil || pkg.Name == "" {
		return nil, fmt.Errorf("package name is required")
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, pkg); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w\n%s", err, buf.String())
	}
	return formatted, nil
}

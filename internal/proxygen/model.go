// Package proxygen generates forwarding wrappers that let proxy.Generator build
// interface proxies.
//
// Generation is a two-step process: Load reads a Go package and collects its
// exported interfaces into a Package model, and Generate renders that model to
// formatted Go source with text/template + go/format.
package proxygen

import (
	"fmt"
	"strings"
	"unicode"
)

// Package is the model of one package to generate wrappers for.
type Package struct {
	Name       string
	Path       string
	Dir        string
	Imports    []Import
	Interfaces []Interface
}

// Import is an import the generated file needs.
type Import struct {
	Path  string
	Alias string
}

// Interface is one exported interface to wrap.
type Interface struct {
	Name    string
	Methods []Method
}

// ProxyName is the unexported name of the generated wrapper type.
func (i Interface) ProxyName() string {
	r := []rune(i.Name)
	n := 0
	// lower-case a leading acronym: HTTPClient -> httpClient
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	switch {
	case n == 0:
	case n == 1 || n == len(r):
		for j := 0; j < n; j++ {
			r[j] = unicode.ToLower(r[j])
		}
	default:
		for j := 0; j < n-1; j++ {
			r[j] = unicode.ToLower(r[j])
		}
	}
	return string(r) + "Proxy"
}

// Method is one method of an interface, with parameter and result types
// already rendered relative to the generated file.
type Method struct {
	Name     string
	Params   []string
	Results  []string
	Variadic bool
}

// Signature renders the parameter list with names a0..an.
func (m Method) Signature() string {
	parts := make([]string, len(m.Params))
	for i, typ := range m.Params {
		if m.Variadic && i == len(m.Params)-1 {
			typ = "..." + strings.TrimPrefix(typ, "[]")
		}
		parts[i] = fmt.Sprintf("a%d %s", i, typ)
	}
	return strings.Join(parts, ", ")
}

// Args renders the arguments passed to Dispatcher.Invoke.
func (m Method) Args() string {
	var b strings.Builder
	for i := range m.Params {
		fmt.Fprintf(&b, ", a%d", i)
	}
	return b.String()
}

// ResultList renders the result types.
func (m Method) ResultList() string {
	switch len(m.Results) {
	case 0:
		return ""
	case 1:
		return m.Results[0]
	default:
		return "(" + strings.Join(m.Results, ", ") + ")"
	}
}

// ReturnExpr renders the expressions extracting each result from out.
func (m Method) ReturnExpr() string {
	parts := make([]string, len(m.Results))
	for i, typ := range m.Results {
		if typ == "error" {
			parts[i] = fmt.Sprintf("proxy.Error(out, %d)", i)
		} else {
			parts[i] = fmt.Sprintf("proxy.Result[%s](out, %d)", typ, i)
		}
	}
	return strings.Join(parts, ", ")
}

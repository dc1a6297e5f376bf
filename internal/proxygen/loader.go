package proxygen

import (
	"fmt"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"
)

// ProxyImportPath is the import path of the runtime the generated code calls.
const ProxyImportPath = "github.com/toutaio/toutago-nasc-interception/proxy"

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// Load loads the package matching pattern and collects its exported
// interfaces. With names set, only those interfaces are collected and each
// must exist. Generic interfaces, constraint interfaces and interfaces with
// unexported methods cannot be wrapped and are skipped, or rejected when
// requested by name.
func Load(pattern string, names ...string) (*Package, error) {
	cfg := &packages.Config{Mode: LoadMode}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors)
	}
	return collect(pkg, names)
}

func collect(pkg *packages.Package, names []string) (*Package, error) {
	out := &Package{
		Name: pkg.Name,
		Path: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		out.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	imports := newImportSet(pkg.Types)
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}
		if len(wanted) > 0 && !wanted[name] {
			continue
		}

		iface, reason := wrappable(typeName)
		if iface == nil {
			if wanted[name] {
				return nil, fmt.Errorf("cannot wrap %s: %s", name, reason)
			}
			continue
		}

		out.Interfaces = append(out.Interfaces, buildInterface(name, iface, imports))
		delete(wanted, name)
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for n := range wanted {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("interfaces not found in %s: %v", pkg.PkgPath, missing)
	}

	out.Imports = imports.list()
	return out, nil
}

// wrappable returns the interface behind typeName, or a reason it cannot be wrapped.
func wrappable(typeName *types.TypeName) (*types.Interface, string) {
	named, ok := typeName.Type().(*types.Named)
	if !ok {
		return nil, "not a named type"
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil, "not an interface"
	}
	if named.TypeParams().Len() > 0 {
		return nil, "generic interface"
	}
	if !iface.IsMethodSet() {
		return nil, "constraint interface"
	}
	for i := 0; i < iface.NumMethods(); i++ {
		if !iface.Method(i).Exported() {
			return nil, "unexported method " + iface.Method(i).Name()
		}
	}
	return iface, ""
}

func buildInterface(name string, iface *types.Interface, imports *importSet) Interface {
	out := Interface{Name: name}
	for i := 0; i < iface.NumMethods(); i++ {
		fn := iface.Method(i)
		sig := fn.Type().(*types.Signature)

		m := Method{Name: fn.Name(), Variadic: sig.Variadic()}
		for j := 0; j < sig.Params().Len(); j++ {
			m.Params = append(m.Params, imports.typeString(sig.Params().At(j).Type()))
		}
		for j := 0; j < sig.Results().Len(); j++ {
			m.Results = append(m.Results, imports.typeString(sig.Results().At(j).Type()))
		}
		out.Methods = append(out.Methods, m)
	}
	return out
}

// importSet tracks the packages referenced by rendered types and picks a
// unique name for each.
type importSet struct {
	self   *types.Package
	byPath map[string]string
	used   map[string]string
}

func newImportSet(self *types.Package) *importSet {
	s := &importSet{
		self:   self,
		byPath: map[string]string{ProxyImportPath: "proxy"},
		used:   map[string]string{"proxy": ProxyImportPath},
	}
	return s
}

func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

func (s *importSet) qualifier(p *types.Package) string {
	if p == s.self {
		return ""
	}
	if name, ok := s.byPath[p.Path()]; ok {
		return name
	}

	name := p.Name()
	for i := 2; ; i++ {
		if _, taken := s.used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", p.Name(), i)
	}
	s.byPath[p.Path()] = name
	s.used[name] = p.Path()
	return name
}

func (s *importSet) list() []Import {
	paths := make([]string, 0, len(s.byPath))
	for path := range s.byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]Import, 0, len(paths))
	for _, path := range paths {
		imp := Import{Path: path}
		if name := s.byPath[path]; name != filepath.Base(path) {
			imp.Alias = name
		}
		out = append(out, imp)
	}
	return out
}

package nasc_test

import (
	"fmt"
	"reflect"
	"strings"

	nasc "github.com/toutaio/toutago-nasc-interception"
)

type ExampleGreeter interface {
	Greet() string
}

type ExampleSimpleGreeter struct{}

func (g *ExampleSimpleGreeter) Greet() string {
	return "Hello, Nasc!"
}

// shoutingRule upper-cases every greeter the container builds.
type shoutingRule struct{}

type shoutingGreeter struct{ inner ExampleGreeter }

func (s shoutingGreeter) Greet() string { return strings.ToUpper(s.inner.Greet()) }

func (shoutingRule) Matches(t reflect.Type) bool {
	return t == nasc.Key[ExampleGreeter]()
}

func (shoutingRule) Rewrite(event *nasc.BuildEvent) nasc.Activator {
	return func() (interface{}, error) {
		inner, err := event.Activator()
		if err != nil {
			return nil, err
		}
		return shoutingGreeter{inner: inner.(ExampleGreeter)}, nil
	}
}

func ExampleNew() {
	container := nasc.New()
	fmt.Printf("Container created: %v\n", container != nil)
	// Output: Container created: true
}

func ExampleNasc_Make() {
	container := nasc.New()

	_ = container.Bind((*ExampleGreeter)(nil), &ExampleSimpleGreeter{})
	greeter := container.Make((*ExampleGreeter)(nil)).(ExampleGreeter)

	fmt.Println(greeter.Greet())
	// Output: Hello, Nasc!
}

func ExampleMakeAs() {
	container := nasc.New()
	_ = container.Singleton((*ExampleGreeter)(nil), &ExampleSimpleGreeter{})

	greeter, err := nasc.MakeAs[ExampleGreeter](container)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(greeter.Greet())
	// Output: Hello, Nasc!
}

func ExampleNasc_AddBuildRule() {
	container := nasc.New()
	_ = container.Bind((*ExampleGreeter)(nil), &ExampleSimpleGreeter{})
	_ = container.AddBuildRule(shoutingRule{})

	greeter := container.Make((*ExampleGreeter)(nil)).(ExampleGreeter)
	fmt.Println(greeter.Greet())
	// Output: HELLO, NASC!
}

func ExampleNasc_MakeSafe() {
	container := nasc.New()

	_, err := container.MakeSafe((*ExampleGreeter)(nil))
	fmt.Println(err)
	// Output: failed to resolve nasc_test.ExampleGreeter: binding not found for type nasc_test.ExampleGreeter
}

package intercept

import (
	"sync"

	"github.com/toutaio/toutago-nasc-interception/proxy"
)

type Foo interface {
	Greet(name string) string
}

type LoudFoo interface {
	Foo
	Shout(name string) string
}

type Bar interface {
	Value() int
}

// Unproxied has no forwarding wrapper registered.
type Unproxied interface {
	Nothing()
}

type foo struct{}

func (f *foo) Greet(name string) string { return "hello " + name }

func (f *foo) Shout(name string) string { return "HELLO " + name }

type bar struct{}

func (b *bar) Value() int { return 7 }

// Clock is a concrete service proxied without a wrapper.
type Clock struct {
	Now func() string
}

type fooProxy struct{ d *proxy.Dispatcher }

func (p fooProxy) Greet(a0 string) string {
	out := p.d.Invoke("Greet", a0)
	return proxy.Result[string](out, 0)
}

type barProxy struct{ d *proxy.Dispatcher }

func (p barProxy) Value() int {
	out := p.d.Invoke("Value")
	return proxy.Result[int](out, 0)
}

func init() {
	if err := proxy.RegisterInterfaceProxy[Foo](proxy.Default, func(d *proxy.Dispatcher) Foo {
		return fooProxy{d: d}
	}); err != nil {
		panic(err)
	}
	if err := proxy.RegisterInterfaceProxy[Bar](proxy.Default, func(d *proxy.Dispatcher) Bar {
		return barProxy{d: d}
	}); err != nil {
		panic(err)
	}
}

// LoggingInterceptor records the methods it sees.
type LoggingInterceptor struct {
	mu    sync.Mutex
	calls []string
}

func (l *LoggingInterceptor) Intercept(inv *proxy.Invocation) {
	l.mu.Lock()
	l.calls = append(l.calls, inv.Method)
	l.mu.Unlock()
	inv.Proceed()
}

func (l *LoggingInterceptor) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// suffixInterceptor appends a suffix to string results.
type suffixInterceptor struct {
	suffix string
}

func (s *suffixInterceptor) Intercept(inv *proxy.Invocation) {
	inv.Proceed()
	if r, ok := inv.Result(0).(string); ok {
		inv.SetResult(0, r+s.suffix)
	}
}

// notAnInterceptor has no Intercept method.
type notAnInterceptor struct{}

// cyclicInterceptor depends on the service it intercepts.
type cyclicInterceptor struct {
	foo Foo
}

func newCyclicInterceptor(f Foo) *cyclicInterceptor {
	return &cyclicInterceptor{foo: f}
}

func (c *cyclicInterceptor) Intercept(inv *proxy.Invocation) {
	inv.Proceed()
}

// Settings is a plain struct: no func fields to proxy.
type Settings struct {
	Level int
}

package contextualmocker

import "reflect"

// Greeter is the small interface exercised by every test in this package.
// A real project would run a code generator over an interface like this to
// produce MockGreeter; here it's hand-written, standing in for that
// generator's output (see mock.go's doc comment).
type Greeter interface {
	Greet(name string) string
	GreetWithError(name string) (string, error)
	Broadcast(names []string) []string
}

// realGreeter is a trivial real implementation, used by the spy tests.
type realGreeter struct{}

func (realGreeter) Greet(name string) string                  { return "hello, " + name }
func (realGreeter) GreetWithError(name string) (string, error) { return "hello, " + name, nil }
func (realGreeter) Broadcast(names []string) []string          { return names }

type MockGreeter struct {
	m *Mock
}

func NewMockGreeter(reg *Registry) *MockGreeter {
	g := &MockGreeter{}
	g.m = NewMock(reg, g)
	return g
}

func NewSpyGreeter(reg *Registry, real Greeter) *MockGreeter {
	g := &MockGreeter{}
	g.m = NewSpy(reg, g, real)
	return g
}

func (g *MockGreeter) Mock() *Mock { return g.m }

var greetReturnTypes = []reflect.Type{reflect.TypeOf("")}

func (g *MockGreeter) Greet(name string) string {
	out := g.m.Handle("Greet", []any{name}, greetReturnTypes...)
	s, _ := out[0].(string)
	return s
}

var greetWithErrorReturnTypes = []reflect.Type{
	reflect.TypeOf(""),
	reflect.TypeOf((*error)(nil)).Elem(),
}

func (g *MockGreeter) GreetWithError(name string) (string, error) {
	out := g.m.Handle("GreetWithError", []any{name}, greetWithErrorReturnTypes...)
	s, _ := out[0].(string)
	err, _ := out[1].(error)
	return s, err
}

var broadcastReturnTypes = []reflect.Type{reflect.TypeOf([]string(nil))}

func (g *MockGreeter) Broadcast(names []string) []string {
	out := g.m.Handle("Broadcast", []any{names}, broadcastReturnTypes...)
	s, _ := out[0].([]string)
	return s
}

package contextualmocker

// Default is the package-level registry used by NewMock/NewSpy when no
// registry is supplied. Most programs need exactly one registry; Default
// exists so small tests and simple programs don't have to thread one
// through.
var Default = NewRegistry()

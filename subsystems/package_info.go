// Package subsystems contains interfaces for implementation of custom Mendel client components.
//
// Most applications will not need to refer to these types. You will use them if you are creating a
// plug-in component, such as a custom freshness policy or metrics recorder, or a test fixture. They are
// also used as interfaces for the built-in components, so that plug-in components can be used
// interchangeably with those.
package subsystems

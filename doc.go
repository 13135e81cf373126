// Package dicore is a compile-time dependency-injection code generator.
//
// The repository splits into three layers:
//
//   - internal/*: the core — key model, binding model, module and component
//     descriptors, the binding-graph resolver, validators, the
//     binding-expression planner, the component writer, and the diagnostic
//     reporter
//   - runtime: the small support types generated code references by name
//     (providers, lazy handles, scope wrappers, delegate factories, set/map
//     builders)
//   - cmd/dicore: the driver — spec loading, source scanning for inject
//     constructors, and file emission
//
// The goal is to keep wiring explicit and resolved at generation time:
// no reflection-based containers, no runtime graph resolution. Requesting
// an entry point on a generated component runs plain constructor calls in a
// statically validated order.
//
// Start with cmd/dicore's package documentation for the input surface and
// end-to-end usage.
package dicore

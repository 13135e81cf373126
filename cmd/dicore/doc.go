// Command dicore — compile-time dependency-injection code generation for Go
//
// dicore reads a declarative component specification, resolves a binding
// graph from it, validates the graph, and generates the glue code that wires
// the object graph together: a component implementation whose entry-point
// methods return fully constructed values, one factory per binding, and one
// members injector per members-injected type.
//
// No reflection, no runtime container, no lifecycle framework — requesting an
// entry point on the generated component runs plain constructor calls wired
// at generation time.
//
// What dicore generates
//
//   - <Prefix><Component>.gen.go: the component implementation — provider
//     fields, batched initialize methods, a builder that validates required
//     inputs, entry-point method bodies, and nested subcomponent
//     implementations
//   - one <Enclosing>_<Method>Factory / <Type>_Factory file per
//     provision/injection binding
//   - one <Type>_MembersInjector file per members-injected type
//
// Input surface
//
// The component spec is YAML:
//
//	package: app
//	component:
//	  name: App
//	  scopes: [Singleton]
//	  modules: [StorageModule]
//	  entryPoints:
//	    - name: store
//	      type: app.Store
//	modules:
//	  - name: StorageModule
//	    requiresInstance: true
//	    provides:
//	      - method: provideStore
//	        type: app.Store
//	        scope: Singleton
//	        params: [app.Config]
//
// Inject constructors are discovered from ordinary Go source: mark a
// constructor with a "dicore:inject" doc-comment line and pass the package
// directory via -scan. Keys not bound by any module method resolve through
// these constructors on demand.
//
// Compiler options load from a separate YAML document (-options); unknown
// option keys warn and are ignored. The options used are stamped into every
// generated file header and can be read back with the codegen package's
// DecodeOptions.
//
// Usage
//
//	dicore -spec component.yaml -out ./gen [-options options.yaml] [-scan ./app] [-v]
//
// Exit codes: 0 on success, 1 when the graph has errors (generation is
// suppressed; diagnostics list every problem with a dependency trace from
// the entry point that reaches it), 2 on bad usage.
package main

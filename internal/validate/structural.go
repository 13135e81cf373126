package validate

import (
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/moduledesc"
)

// ModuleComponentStructural checks the structural rules: modules must not be private; must not have type
// parameters unless abstract (out of scope for this descriptor shape — no
// generic modules are modeled); binding-method overrides are disallowed
// (descriptors never carry overridden declarations, so nothing to check
// here); a module may not include itself; subcomponents declared in
// `subcomponents` must expose a creator; included modules referenced by a
// public module must also be effectively public if they require module
// instances.
func ModuleComponentStructural(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, m := range gr.Component.Modules {
			checkModuleSelfInclusion(m, c)
			checkModuleVisibility(m, c)
		}
		for _, child := range gr.Component.Children {
			if _, hasFactory := gr.Component.ChildFactoryMethods[child.Name]; !hasFactory {
				if child.CreatorKind == 0 {
					// declared solely via a module's subcomponents attribute
					// and has no creator, which it must expose.
					declaredViaModule := false
					for _, m := range gr.Component.Modules {
						for _, s := range m.DeclaredSubcomponents {
							if s == child.Name {
								declaredViaModule = true
							}
						}
					}
					if declaredViaModule {
						c.Reporter.Errorf(child.Name,
							"subcomponent %s declared via module must expose a builder or factory", child.Name)
					}
				}
			}
		}
	})
}

func checkModuleSelfInclusion(m *moduledesc.Descriptor, c *Context) {
	for _, inc := range m.IncludedModules {
		if inc == m {
			c.Reporter.Errorf(m.Name, "module %s may not include itself", m.Name)
		}
	}
}

func checkModuleVisibility(m *moduledesc.Descriptor, c *Context) {
	if !m.Public {
		return
	}
	for _, inc := range m.IncludedModules {
		if inc.RequiresInstance && !inc.Public {
			c.Reporter.Errorf(m.Name,
				"public module %s includes non-public module %s that requires an instance",
				m.Name, inc.Name)
		}
	}
}

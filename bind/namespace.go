package bind

import "strings"

// NamespaceSeparator joins the segments of a qualified name.
const NamespaceSeparator = "::"

// Namespace is one scope in the tree grouping types, functions and globals.
// The root namespace has an empty name.
type Namespace struct {
	name     string
	parent   *Namespace
	children map[string]*Namespace
}

// NewNamespace creates a root namespace.
func NewNamespace() *Namespace {
	return &Namespace{children: make(map[string]*Namespace)}
}

// Child returns the named child scope, creating it on first use.
func (n *Namespace) Child(name string) *Namespace {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := &Namespace{name: name, parent: n, children: make(map[string]*Namespace)}
	n.children[name] = c
	return c
}

// Path returns the scope reached by following a qualified path such as
// "Geo::Shapes", creating missing scopes.
func (n *Namespace) Path(path string) *Namespace {
	cur := n
	if path == "" {
		return cur
	}
	for _, seg := range strings.Split(path, NamespaceSeparator) {
		cur = cur.Child(seg)
	}
	return cur
}

// Lookup returns an existing child scope.
func (n *Namespace) Lookup(name string) *Namespace {
	return n.children[name]
}

func (n *Namespace) Name() string       { return n.name }
func (n *Namespace) Parent() *Namespace { return n.parent }

// FullName returns the qualified name of this scope ("" for the root).
func (n *Namespace) FullName() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Qualify(n.name)
}

// Qualify returns the qualified name of name declared in this scope.
func (n *Namespace) Qualify(name string) string {
	full := n.FullName()
	if full == "" {
		return name
	}
	return full + NamespaceSeparator + name
}

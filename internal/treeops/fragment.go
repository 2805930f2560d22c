package treeops

import (
	"strings"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// Fragment is a subtree detached from the model: a clipboard copy, a removed
// entity kept for restore, or a clone about to be pasted. Child id lists and
// parent ids inside a fragment are stale; they are rebuilt on insertion.
type Fragment interface {
	RootID() string
	// ids returns every entity id in the fragment and, separately, its
	// class ids.
	ids() (all, classes []string)
	changeID(prefix string)
	restoreID(prefix string)
}

// ClassFragment is a detached class.
type ClassFragment struct {
	Class domain.Class
}

// PackageFragment is a detached package with its sub-packages and classes in
// model order.
type PackageFragment struct {
	Package     domain.Package
	SubPackages []*PackageFragment
	Classes     []*ClassFragment
}

// AppFragment is a detached application together with a copy of its node.
type AppFragment struct {
	Node        domain.Node
	Application domain.Application
	Packages    []*PackageFragment
}

func (f *ClassFragment) RootID() string   { return f.Class.ID }
func (f *PackageFragment) RootID() string { return f.Package.ID }
func (f *AppFragment) RootID() string     { return f.Application.ID }

// ClassIDs returns the ids of every class in the fragment.
func (f *PackageFragment) ClassIDs() []string {
	var out []string
	for _, c := range f.Classes {
		out = append(out, c.Class.ID)
	}
	for _, sub := range f.SubPackages {
		out = append(out, sub.ClassIDs()...)
	}
	return out
}

// PackageIDs returns the ids of every package in the fragment, root first.
func (f *PackageFragment) PackageIDs() []string {
	out := []string{f.Package.ID}
	for _, sub := range f.SubPackages {
		out = append(out, sub.PackageIDs()...)
	}
	return out
}

// ClassIDs returns the ids of every class in the application fragment.
func (f *AppFragment) ClassIDs() []string {
	var out []string
	for _, p := range f.Packages {
		out = append(out, p.ClassIDs()...)
	}
	return out
}

func (f *ClassFragment) ids() (all, classes []string) {
	return []string{f.Class.ID}, []string{f.Class.ID}
}

func (f *PackageFragment) ids() (all, classes []string) {
	classes = f.ClassIDs()
	return append(f.PackageIDs(), classes...), classes
}

func (f *AppFragment) ids() (all, classes []string) {
	all = []string{f.Node.ID, f.Application.ID}
	for _, p := range f.Packages {
		all = append(all, p.PackageIDs()...)
	}
	classes = f.ClassIDs()
	return append(all, classes...), classes
}

// ---------- Copy ----------

// CopyClassContent clones the class, keeping its id and method hashes.
func CopyClassContent(c *domain.Class) *ClassFragment {
	return &ClassFragment{Class: *model.CloneClass(c)}
}

// CopyPackageContent recursively clones the package, keeping every id.
func CopyPackageContent(m *model.Model, p *domain.Package) *PackageFragment {
	f := &PackageFragment{Package: *model.ClonePackage(p)}
	for _, id := range p.SubPackageIDs {
		if sub, ok := m.Package(id); ok {
			f.SubPackages = append(f.SubPackages, CopyPackageContent(m, sub))
		}
	}
	for _, id := range p.ClassIDs {
		if c, ok := m.Class(id); ok {
			f.Classes = append(f.Classes, CopyClassContent(c))
		}
	}
	return f
}

// CopyApplicationContent clones the application and its node, keeping every id.
func CopyApplicationContent(m *model.Model, a *domain.Application) *AppFragment {
	f := &AppFragment{Application: *model.CloneApplication(a)}
	if n, ok := m.Node(a.NodeID); ok {
		f.Node = *model.CloneNode(n)
	}
	for _, id := range a.PackageIDs {
		if p, ok := m.Package(id); ok {
			f.Packages = append(f.Packages, CopyPackageContent(m, p))
		}
	}
	return f
}

// ---------- Id rewriting ----------

// ChangeID prepends prefix to the id of the fragment root and of every
// descendant, including method hashes.
func ChangeID(f Fragment, prefix string) { f.changeID(prefix) }

// RestoreID strips prefix from every id and method hash in the fragment. Ids
// that do not start with prefix are left alone. The check is textual, so an
// id that merely happens to start with prefix is stripped as well.
func RestoreID(f Fragment, prefix string) { f.restoreID(prefix) }

func (f *ClassFragment) changeID(prefix string) {
	f.Class.ID = prefix + f.Class.ID
	for i := range f.Class.Methods {
		f.Class.Methods[i].Hash = prefix + f.Class.Methods[i].Hash
	}
}

func (f *ClassFragment) restoreID(prefix string) {
	f.Class.ID = strip(f.Class.ID, prefix)
	for i := range f.Class.Methods {
		f.Class.Methods[i].Hash = strip(f.Class.Methods[i].Hash, prefix)
	}
}

func (f *PackageFragment) changeID(prefix string) {
	f.Package.ID = prefix + f.Package.ID
	for _, sub := range f.SubPackages {
		sub.changeID(prefix)
	}
	for _, c := range f.Classes {
		c.changeID(prefix)
	}
}

func (f *PackageFragment) restoreID(prefix string) {
	f.Package.ID = strip(f.Package.ID, prefix)
	for _, sub := range f.SubPackages {
		sub.restoreID(prefix)
	}
	for _, c := range f.Classes {
		c.restoreID(prefix)
	}
}

func (f *AppFragment) changeID(prefix string) {
	f.Node.ID = prefix + f.Node.ID
	f.Application.ID = prefix + f.Application.ID
	for _, p := range f.Packages {
		p.changeID(prefix)
	}
}

func (f *AppFragment) restoreID(prefix string) {
	f.Node.ID = strip(f.Node.ID, prefix)
	f.Application.ID = strip(f.Application.ID, prefix)
	for _, p := range f.Packages {
		p.restoreID(prefix)
	}
}

func strip(id, prefix string) string {
	out, _ := strings.CutPrefix(id, prefix)
	return out
}

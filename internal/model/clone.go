package model

import (
	"slices"

	"landscaper/internal/domain"
)

// Clone returns a deep copy that shares no mutable state with m.
func (m *Model) Clone() *Model {
	out := New(m.token)
	out.nodeOrder = slices.Clone(m.nodeOrder)
	for id, n := range m.nodes {
		out.nodes[id] = CloneNode(n)
	}
	for id, a := range m.apps {
		out.apps[id] = CloneApplication(a)
	}
	for id, p := range m.packages {
		out.packages[id] = ClonePackage(p)
	}
	for id, c := range m.classes {
		out.classes[id] = CloneClass(c)
	}
	out.comms = make([]*domain.ClassCommunication, 0, len(m.comms))
	for _, c := range m.comms {
		cp := *c
		out.comms = append(out.comms, &cp)
	}
	return out
}

func CloneNode(n *domain.Node) *domain.Node {
	cp := *n
	cp.ApplicationIDs = slices.Clone(n.ApplicationIDs)
	return &cp
}

func CloneApplication(a *domain.Application) *domain.Application {
	cp := *a
	cp.PackageIDs = slices.Clone(a.PackageIDs)
	return &cp
}

func ClonePackage(p *domain.Package) *domain.Package {
	cp := *p
	cp.SubPackageIDs = slices.Clone(p.SubPackageIDs)
	cp.ClassIDs = slices.Clone(p.ClassIDs)
	return &cp
}

func CloneClass(c *domain.Class) *domain.Class {
	cp := *c
	cp.Methods = slices.Clone(c.Methods)
	return &cp
}

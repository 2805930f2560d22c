package treeops

import (
	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// CanDeletePackage reports whether removing p leaves its parent package or
// application with at least one child.
func CanDeletePackage(m *model.Model, p *domain.Package) bool {
	if p.IsTopLevel() {
		app, ok := m.Application(p.ApplicationID)
		return ok && len(app.PackageIDs) > 1
	}
	parent, ok := m.Package(p.ParentID)
	return ok && parent.ChildCount() > 1
}

// CanDeleteClass reports whether removing c leaves its package with at least
// one child.
func CanDeleteClass(m *model.Model, c *domain.Class) bool {
	parent, ok := m.Package(c.PackageID)
	return ok && parent.ChildCount() > 1
}

// RemoveApplication detaches app from its node and drops the whole subtree.
// The node is dropped too when app was its only application. Communications
// that lose an endpoint are removed and returned.
func RemoveApplication(m *model.Model, app *domain.Application) []*domain.ClassCommunication {
	_, classIDs := m.ApplicationSubtreeIDs(app.ID)
	removed := dropCommunications(m, classIDs)

	for _, pkgID := range app.PackageIDs {
		dropPackageTree(m, pkgID)
	}
	m.DropApplication(app.ID)

	if node, ok := m.Node(app.NodeID); ok {
		node.ApplicationIDs, _ = model.RemoveID(node.ApplicationIDs, app.ID)
		if len(node.ApplicationIDs) == 0 {
			m.DropNode(node.ID)
		}
	}
	return removed
}

// RemovePackageFromApplication detaches p from its parent application or
// package and drops its subtree. It does not check CanDeletePackage.
func RemovePackageFromApplication(m *model.Model, p *domain.Package) []*domain.ClassCommunication {
	removed := dropCommunications(m, m.SubtreeClassIDs(p.ID))
	detachPackage(m, p)
	dropPackageTree(m, p.ID)
	return removed
}

// RemoveClassFromPackage detaches c from its package and drops it. It does
// not check CanDeleteClass.
func RemoveClassFromPackage(m *model.Model, c *domain.Class) []*domain.ClassCommunication {
	removed := dropCommunications(m, []string{c.ID})
	detachClass(m, c)
	m.DropClass(c.ID)
	return removed
}

// detachPackage unlinks p from its parent and returns the former index.
func detachPackage(m *model.Model, p *domain.Package) int {
	idx := -1
	if p.IsTopLevel() {
		if app, ok := m.Application(p.ApplicationID); ok {
			app.PackageIDs, idx = model.RemoveID(app.PackageIDs, p.ID)
		}
		return idx
	}
	if parent, ok := m.Package(p.ParentID); ok {
		parent.SubPackageIDs, idx = model.RemoveID(parent.SubPackageIDs, p.ID)
	}
	return idx
}

// detachClass unlinks c from its package and returns the former index.
func detachClass(m *model.Model, c *domain.Class) int {
	idx := -1
	if parent, ok := m.Package(c.PackageID); ok {
		parent.ClassIDs, idx = model.RemoveID(parent.ClassIDs, c.ID)
	}
	return idx
}

func dropPackageTree(m *model.Model, pkgID string) {
	for _, id := range m.SubtreePackageIDs(pkgID) {
		p, _ := m.Package(id)
		for _, clsID := range p.ClassIDs {
			m.DropClass(clsID)
		}
		m.DropPackage(id)
	}
}

func dropCommunications(m *model.Model, classIDs []string) []*domain.ClassCommunication {
	removed := m.CommunicationsTouching(classIDs)
	for _, c := range removed {
		m.DropCommunication(c.ID)
	}
	return removed
}

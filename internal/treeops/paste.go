package treeops

import (
	"strings"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// Destination is the parent a package is pasted or moved into: either an
// application (the package becomes top-level) or a package. Classes always go
// into a package.
type Destination struct {
	App     *domain.Application
	Package *domain.Package
}

// ToApp targets an application.
func ToApp(a *domain.Application) Destination { return Destination{App: a} }

// ToPackage targets a package.
func ToPackage(p *domain.Package) Destination { return Destination{Package: p} }

// Application resolves the application that owns the destination.
func (d Destination) Application(m *model.Model) (*domain.Application, bool) {
	if d.Package != nil {
		return m.ApplicationOf(d.Package.ID)
	}
	return d.App, d.App != nil
}

// ---------- Paste ----------

// PastePackage attaches f under dest and returns the live root package.
//
// A non-empty prefix marks a paste of a copy: f's ids already carry prefix
// (see ChangeID), and every communication touching one of the original
// classes is cloned onto the copy. The clones are returned as created.
//
// With an empty prefix f holds original ids, as when a cut or removed package
// comes back; communications touching its classes are re-targeted to the new
// application and returned as updated.
func PastePackage(m *model.Model, f *PackageFragment, dest Destination, prefix string) (pkg *domain.Package, created, updated []*domain.ClassCommunication) {
	return pastePackageAt(m, f, dest, -1, prefix)
}

// PasteClass attaches f to destPkg. prefix has the same meaning as in
// PastePackage.
func PasteClass(m *model.Model, f *ClassFragment, destPkg *domain.Package, prefix string) (cls *domain.Class, created, updated []*domain.ClassCommunication) {
	return pasteClassAt(m, f, destPkg, -1, prefix)
}

func pastePackageAt(m *model.Model, f *PackageFragment, dest Destination, idx int, prefix string) (*domain.Package, []*domain.ClassCommunication, []*domain.ClassCommunication) {
	app, _ := dest.Application(m)
	root := insertPackage(m, f, dest, idx)
	created, updated := reconcileCommunications(m, f.ClassIDs(), app, prefix)
	return root, created, updated
}

func pasteClassAt(m *model.Model, f *ClassFragment, destPkg *domain.Package, idx int, prefix string) (*domain.Class, []*domain.ClassCommunication, []*domain.ClassCommunication) {
	app, _ := m.ApplicationOf(destPkg.ID)
	cls := insertClass(m, f, destPkg, idx)
	created, updated := reconcileCommunications(m, []string{cls.ID}, app, prefix)
	return cls, created, updated
}

func insertPackage(m *model.Model, f *PackageFragment, dest Destination, idx int) *domain.Package {
	p := &domain.Package{ID: f.Package.ID, Name: f.Package.Name}
	if dest.Package != nil {
		p.ParentID = dest.Package.ID
		dest.Package.SubPackageIDs = model.InsertID(dest.Package.SubPackageIDs, idx, p.ID)
	} else {
		p.ApplicationID = dest.App.ID
		dest.App.PackageIDs = model.InsertID(dest.App.PackageIDs, idx, p.ID)
	}
	m.PutPackage(p)
	for _, sub := range f.SubPackages {
		insertPackage(m, sub, ToPackage(p), -1)
	}
	for _, c := range f.Classes {
		insertClass(m, c, p, -1)
	}
	return p
}

func insertClass(m *model.Model, f *ClassFragment, pkg *domain.Package, idx int) *domain.Class {
	c := model.CloneClass(&f.Class)
	c.PackageID = pkg.ID
	pkg.ClassIDs = model.InsertID(pkg.ClassIDs, idx, c.ID)
	m.PutClass(c)
	return c
}

// reconcileCommunications either clones (prefix != "") or re-targets
// (prefix == "") the communications of the pasted classes.
func reconcileCommunications(m *model.Model, classIDs []string, app *domain.Application, prefix string) (created, updated []*domain.ClassCommunication) {
	if app == nil {
		return nil, nil
	}
	if prefix == "" {
		return nil, retarget(m, classIDs, app)
	}
	originals := make([]string, len(classIDs))
	for i, id := range classIDs {
		originals[i] = strings.TrimPrefix(id, prefix)
	}
	cache := make(map[string]*domain.ClassCommunication)
	return cloneCommunications(m, originals, prefix, app, cache), nil
}

// retarget points every communication end inside classIDs at app.
func retarget(m *model.Model, classIDs []string, app *domain.Application) []*domain.ClassCommunication {
	if app == nil {
		return nil
	}
	set := idSet(classIDs)
	var updated []*domain.ClassCommunication
	for _, c := range m.CommunicationsTouching(classIDs) {
		if _, ok := set[c.SourceClassID]; ok {
			c.SourceAppID = app.ID
		}
		if _, ok := set[c.TargetClassID]; ok {
			c.TargetAppID = app.ID
		}
		updated = append(updated, c)
	}
	return updated
}

// cloneCommunications clones every communication touching one of the
// original classes onto the prefixed copies. cache is keyed by the original
// communication id so an edge between two copied classes is cloned once.
func cloneCommunications(m *model.Model, originals []string, prefix string, app *domain.Application, cache map[string]*domain.ClassCommunication) []*domain.ClassCommunication {
	set := idSet(originals)
	var created []*domain.ClassCommunication
	for _, clsID := range originals {
		for _, c := range m.CommunicationsTouching([]string{clsID}) {
			if _, done := cache[c.ID]; done {
				continue
			}
			clone := *c
			clone.ID = prefix + c.ID
			if _, ok := set[c.SourceClassID]; ok {
				clone.SourceClassID = prefix + c.SourceClassID
				clone.SourceAppID = app.ID
			}
			if _, ok := set[c.TargetClassID]; ok {
				clone.TargetClassID = prefix + c.TargetClassID
				clone.TargetAppID = app.ID
			}
			cache[c.ID] = &clone
			created = append(created, &clone)
		}
	}
	// Insert after iterating so clones are never picked up as originals.
	for _, c := range created {
		m.PutCommunication(c)
	}
	return created
}

// ---------- Move ----------

// MovePackage re-parents p under dest. Every communication with an end inside
// the moved subtree is pointed at the destination application; ids do not
// change. The touched communications are returned for replication.
func MovePackage(m *model.Model, p *domain.Package, dest Destination) (updatedComms []*domain.ClassCommunication) {
	return MovePackageTo(m, p, dest, -1)
}

// MovePackageTo is MovePackage with an explicit child index; -1 appends.
func MovePackageTo(m *model.Model, p *domain.Package, dest Destination, idx int) []*domain.ClassCommunication {
	detachPackage(m, p)
	if dest.Package != nil {
		p.ParentID, p.ApplicationID = dest.Package.ID, ""
		dest.Package.SubPackageIDs = model.InsertID(dest.Package.SubPackageIDs, idx, p.ID)
	} else {
		p.ParentID, p.ApplicationID = "", dest.App.ID
		dest.App.PackageIDs = model.InsertID(dest.App.PackageIDs, idx, p.ID)
	}
	app, _ := dest.Application(m)
	return retarget(m, m.SubtreeClassIDs(p.ID), app)
}

// MoveClass re-parents c into destPkg and re-targets its communications.
func MoveClass(m *model.Model, c *domain.Class, destPkg *domain.Package) (updatedComms []*domain.ClassCommunication) {
	return MoveClassTo(m, c, destPkg, -1)
}

// MoveClassTo is MoveClass with an explicit child index; -1 appends.
func MoveClassTo(m *model.Model, c *domain.Class, destPkg *domain.Package, idx int) []*domain.ClassCommunication {
	detachClass(m, c)
	c.PackageID = destPkg.ID
	destPkg.ClassIDs = model.InsertID(destPkg.ClassIDs, idx, c.ID)
	app, _ := m.ApplicationOf(destPkg.ID)
	return retarget(m, []string{c.ID}, app)
}

// ---------- Duplicate ----------

// Duplicate is the result of DuplicateApplication.
type Duplicate struct {
	Node           *domain.Node
	Application    *domain.Application
	Communications []*domain.ClassCommunication
	Prefix         string
}

// DuplicateApplication deep-clones app, its node, packages, classes and
// methods onto a new node placed right after the original one. Communications
// with an end inside app are cloned once each. Every id of the clone carries a
// fresh "duplicated|" style prefix.
func DuplicateApplication(m *model.Model, app *domain.Application) Duplicate {
	f := CopyApplicationContent(m, app)
	prefix := FreshPrefix(m, DuplicateBase, f)
	ChangeID(f, prefix)

	node := &domain.Node{
		ID:             f.Node.ID,
		IPAddress:      f.Node.IPAddress,
		HostName:       f.Node.HostName,
		ApplicationIDs: []string{f.Application.ID},
	}
	idx := m.NodeIndex(app.NodeID)
	if idx >= 0 {
		idx++
	}
	m.InsertNode(node, idx)
	dup := insertApplication(m, f, node, -1)

	_, classIDs := m.ApplicationSubtreeIDs(app.ID)
	cache := make(map[string]*domain.ClassCommunication)
	comms := cloneCommunications(m, classIDs, prefix, dup, cache)

	return Duplicate{Node: node, Application: dup, Communications: comms, Prefix: prefix}
}

func insertApplication(m *model.Model, f *AppFragment, node *domain.Node, idx int) *domain.Application {
	a := &domain.Application{
		ID:         f.Application.ID,
		Name:       f.Application.Name,
		Language:   f.Application.Language,
		InstanceID: f.Application.InstanceID,
		NodeID:     node.ID,
	}
	if !containsID(node.ApplicationIDs, a.ID) {
		node.ApplicationIDs = model.InsertID(node.ApplicationIDs, idx, a.ID)
	}
	m.PutApplication(a)
	for _, p := range f.Packages {
		insertPackage(m, p, ToApp(a), -1)
	}
	return a
}

// ---------- Restore ----------

// RestoreApplication re-inserts a removed application. Its node is recreated
// at nodeIdx when it no longer exists; otherwise the application is put back
// at appIdx within the node. comms are the communications removed with it.
func RestoreApplication(m *model.Model, f *AppFragment, nodeIdx, appIdx int, comms []*domain.ClassCommunication) *domain.Application {
	node, ok := m.Node(f.Node.ID)
	if !ok {
		node = &domain.Node{ID: f.Node.ID, IPAddress: f.Node.IPAddress, HostName: f.Node.HostName}
		m.InsertNode(node, nodeIdx)
	}
	app := insertApplication(m, f, node, appIdx)
	restoreCommunications(m, comms)
	return app
}

// RestorePackage re-inserts a removed package at idx within dest.
func RestorePackage(m *model.Model, f *PackageFragment, dest Destination, idx int, comms []*domain.ClassCommunication) *domain.Package {
	p := insertPackage(m, f, dest, idx)
	restoreCommunications(m, comms)
	return p
}

// RestoreClass re-inserts a removed class at idx within pkg.
func RestoreClass(m *model.Model, f *ClassFragment, pkg *domain.Package, idx int, comms []*domain.ClassCommunication) *domain.Class {
	c := insertClass(m, f, pkg, idx)
	restoreCommunications(m, comms)
	return c
}

// restoreCommunications puts back communications whose two classes exist
// again, refreshing their application references.
func restoreCommunications(m *model.Model, comms []*domain.ClassCommunication) {
	for _, c := range comms {
		src, okSrc := m.ClassApplication(c.SourceClassID)
		tgt, okTgt := m.ClassApplication(c.TargetClassID)
		if !okSrc || !okTgt {
			continue
		}
		cp := *c
		cp.SourceAppID, cp.TargetAppID = src.ID, tgt.ID
		m.PutCommunication(&cp)
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

package treeops

import (
	"fmt"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// AddFoundation builds a fresh Node -> Application -> Package -> Class chain
// with ids derived from seq and adds it to the model.
func AddFoundation(m *model.Model, name, language string, seq int) *domain.Node {
	ids := IDsForSeq(seq)
	node := &domain.Node{
		ID:             ids.Node,
		IPAddress:      fmt.Sprintf("192.168.%d.%d", (seq/254)%256, seq%254+1),
		HostName:       fmt.Sprintf("new-node-%d", seq),
		ApplicationIDs: []string{ids.App},
	}
	app := &domain.Application{
		ID:         ids.App,
		Name:       name,
		Language:   language,
		InstanceID: fmt.Sprintf("newInstance%d", seq),
		NodeID:     node.ID,
		PackageIDs: []string{ids.Package},
	}
	pkg := &domain.Package{
		ID:            ids.Package,
		Name:          ids.Package,
		ClassIDs:      []string{ids.Class},
		ApplicationID: app.ID,
	}
	cls := &domain.Class{ID: ids.Class, Name: ids.Class, PackageID: pkg.ID}

	m.PutNode(node)
	m.PutApplication(app)
	m.PutPackage(pkg)
	m.PutClass(cls)
	return node
}

// AddPackage creates a top-level package named name in app. A placeholder
// class is created with it, since a package must never be empty.
func AddPackage(m *model.Model, app *domain.Application, name string, seq int) (*domain.Package, *domain.Class) {
	ids := IDsForSeq(seq)
	pkg := &domain.Package{ID: ids.Package, Name: defaultName(name, ids.Package), ApplicationID: app.ID}
	cls := &domain.Class{ID: ids.Class, Name: ids.Class, PackageID: pkg.ID}
	pkg.ClassIDs = []string{cls.ID}
	m.PutPackage(pkg)
	m.PutClass(cls)
	app.PackageIDs = append(app.PackageIDs, pkg.ID)
	return pkg, cls
}

// AddSubPackage creates a sub-package named name in parent, with a
// placeholder class.
func AddSubPackage(m *model.Model, parent *domain.Package, name string, seq int) (*domain.Package, *domain.Class) {
	ids := IDsForSeq(seq)
	pkg := &domain.Package{ID: ids.Package, Name: defaultName(name, ids.Package), ParentID: parent.ID}
	cls := &domain.Class{ID: ids.Class, Name: ids.Class, PackageID: pkg.ID}
	pkg.ClassIDs = []string{cls.ID}
	m.PutPackage(pkg)
	m.PutClass(cls)
	parent.SubPackageIDs = append(parent.SubPackageIDs, pkg.ID)
	return pkg, cls
}

// AddClass creates a class named name in pkg.
func AddClass(m *model.Model, pkg *domain.Package, name string, seq int) *domain.Class {
	ids := IDsForSeq(seq)
	cls := &domain.Class{ID: ids.Class, Name: defaultName(name, ids.Class), PackageID: pkg.ID}
	m.PutClass(cls)
	pkg.ClassIDs = append(pkg.ClassIDs, cls.ID)
	return cls
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

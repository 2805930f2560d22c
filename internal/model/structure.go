package model

import (
	"encoding/json"
	"fmt"

	"landscaper/internal/crypto"
	"landscaper/internal/domain"
)

// FromStructure flattens a nested landscape into a new model. Methods without
// a hash get one derived from their name. Duplicate ids are rejected.
func FromStructure(ls domain.Landscape) (*Model, error) {
	m := New(ls.Token)
	for _, sn := range ls.Nodes {
		if m.Has(sn.ID) {
			return nil, fmt.Errorf("node %q: %w", sn.ID, domain.ErrDuplicateID)
		}
		node := &domain.Node{ID: sn.ID, IPAddress: sn.IPAddress, HostName: sn.HostName}
		m.PutNode(node)
		for _, sa := range sn.Applications {
			if m.Has(sa.ID) {
				return nil, fmt.Errorf("application %q: %w", sa.ID, domain.ErrDuplicateID)
			}
			app := &domain.Application{
				ID:         sa.ID,
				Name:       sa.Name,
				Language:   sa.Language,
				InstanceID: sa.InstanceID,
				NodeID:     node.ID,
			}
			m.PutApplication(app)
			node.ApplicationIDs = append(node.ApplicationIDs, app.ID)
			for _, sp := range sa.Packages {
				if err := m.addStructurePackage(sp, "", app.ID); err != nil {
					return nil, err
				}
				app.PackageIDs = append(app.PackageIDs, sp.ID)
			}
		}
	}
	for i := range ls.Communications {
		c := ls.Communications[i]
		if _, ok := m.classes[c.SourceClassID]; !ok {
			return nil, fmt.Errorf("communication %q source %q: %w", c.ID, c.SourceClassID, domain.ErrNotFound)
		}
		if _, ok := m.classes[c.TargetClassID]; !ok {
			return nil, fmt.Errorf("communication %q target %q: %w", c.ID, c.TargetClassID, domain.ErrNotFound)
		}
		// Application references are derived, not trusted.
		src, _ := m.ClassApplication(c.SourceClassID)
		tgt, _ := m.ClassApplication(c.TargetClassID)
		c.SourceAppID, c.TargetAppID = src.ID, tgt.ID
		m.PutCommunication(&c)
	}
	return m, nil
}

func (m *Model) addStructurePackage(sp domain.StructurePackage, parentID, appID string) error {
	if m.Has(sp.ID) {
		return fmt.Errorf("package %q: %w", sp.ID, domain.ErrDuplicateID)
	}
	pkg := &domain.Package{ID: sp.ID, Name: sp.Name, ParentID: parentID}
	if parentID == "" {
		pkg.ApplicationID = appID
	}
	m.PutPackage(pkg)
	for _, sub := range sp.SubPackages {
		if err := m.addStructurePackage(sub, pkg.ID, appID); err != nil {
			return err
		}
		pkg.SubPackageIDs = append(pkg.SubPackageIDs, sub.ID)
	}
	for _, sc := range sp.Classes {
		if m.Has(sc.ID) {
			return fmt.Errorf("class %q: %w", sc.ID, domain.ErrDuplicateID)
		}
		cls := &domain.Class{ID: sc.ID, Name: sc.Name, PackageID: pkg.ID}
		for _, meth := range sc.Methods {
			if meth.Hash == "" {
				meth.Hash = crypto.MethodHash(meth.Name)
			}
			cls.Methods = append(cls.Methods, meth)
		}
		m.PutClass(cls)
		pkg.ClassIDs = append(pkg.ClassIDs, cls.ID)
	}
	return nil
}

// Structure converts the model back into its nested form.
func (m *Model) Structure() domain.Landscape {
	ls := domain.Landscape{Token: m.token}
	for _, n := range m.Nodes() {
		sn := domain.StructureNode{ID: n.ID, IPAddress: n.IPAddress, HostName: n.HostName}
		for _, appID := range n.ApplicationIDs {
			a, ok := m.apps[appID]
			if !ok {
				continue
			}
			sa := domain.StructureApplication{
				ID:         a.ID,
				Name:       a.Name,
				Language:   a.Language,
				InstanceID: a.InstanceID,
			}
			for _, pkgID := range a.PackageIDs {
				if sp, ok := m.structurePackage(pkgID); ok {
					sa.Packages = append(sa.Packages, sp)
				}
			}
			sn.Applications = append(sn.Applications, sa)
		}
		ls.Nodes = append(ls.Nodes, sn)
	}
	for _, c := range m.comms {
		ls.Communications = append(ls.Communications, *c)
	}
	return ls
}

// structurePackage nests package id. Child ids missing from the arena are
// skipped.
func (m *Model) structurePackage(id string) (domain.StructurePackage, bool) {
	p, ok := m.packages[id]
	if !ok {
		return domain.StructurePackage{}, false
	}
	sp := domain.StructurePackage{ID: p.ID, Name: p.Name}
	for _, subID := range p.SubPackageIDs {
		if sub, ok := m.structurePackage(subID); ok {
			sp.SubPackages = append(sp.SubPackages, sub)
		}
	}
	for _, clsID := range p.ClassIDs {
		c, ok := m.classes[clsID]
		if !ok {
			continue
		}
		sp.Classes = append(sp.Classes, domain.StructureClass{
			ID:      c.ID,
			Name:    c.Name,
			Methods: append([]domain.Method(nil), c.Methods...),
		})
	}
	return sp, true
}

// Fingerprint summarises the current structure. Two replicas that applied
// the same edits report the same fingerprint.
func (m *Model) Fingerprint() string {
	b, err := json.Marshal(m.Structure())
	if err != nil {
		return ""
	}
	return crypto.Fingerprint(b)
}

package model

import (
	"slices"

	"landscaper/internal/domain"
)

// Model is the mutable landscape tree plus its class communications.
//
// Entities are stored in per-kind maps keyed by id. Parents reference children
// by id and children carry their parent id, so there are no pointer cycles.
// The Put/Drop methods only maintain the maps; keeping child lists and parent
// ids consistent is the caller's job (see package treeops).
//
// A Model is not safe for concurrent use.
type Model struct {
	token domain.LandscapeToken

	nodes     map[string]*domain.Node
	nodeOrder []string

	apps     map[string]*domain.Application
	packages map[string]*domain.Package
	classes  map[string]*domain.Class
	comms    []*domain.ClassCommunication
}

// New returns an empty model for token.
func New(token domain.LandscapeToken) *Model {
	return &Model{
		token:    token,
		nodes:    make(map[string]*domain.Node),
		apps:     make(map[string]*domain.Application),
		packages: make(map[string]*domain.Package),
		classes:  make(map[string]*domain.Class),
	}
}

// Token returns the landscape token the model belongs to.
func (m *Model) Token() domain.LandscapeToken { return m.token }

// SetToken replaces the landscape token.
func (m *Model) SetToken(token domain.LandscapeToken) { m.token = token }

// ---------- Lookup ----------

func (m *Model) Node(id string) (*domain.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

func (m *Model) Application(id string) (*domain.Application, bool) {
	a, ok := m.apps[id]
	return a, ok
}

func (m *Model) Package(id string) (*domain.Package, bool) {
	p, ok := m.packages[id]
	return p, ok
}

func (m *Model) Class(id string) (*domain.Class, bool) {
	c, ok := m.classes[id]
	return c, ok
}

// Communication returns the communication with id.
func (m *Model) Communication(id string) (*domain.ClassCommunication, bool) {
	for _, c := range m.comms {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Has reports whether any entity or communication uses id.
func (m *Model) Has(id string) bool {
	if _, ok := m.nodes[id]; ok {
		return true
	}
	if _, ok := m.apps[id]; ok {
		return true
	}
	if _, ok := m.packages[id]; ok {
		return true
	}
	if _, ok := m.classes[id]; ok {
		return true
	}
	_, ok := m.Communication(id)
	return ok
}

// Nodes returns the nodes in insertion order.
func (m *Model) Nodes() []*domain.Node {
	out := make([]*domain.Node, 0, len(m.nodeOrder))
	for _, id := range m.nodeOrder {
		out = append(out, m.nodes[id])
	}
	return out
}

// Applications returns all applications, ordered by node then position.
func (m *Model) Applications() []*domain.Application {
	var out []*domain.Application
	for _, n := range m.Nodes() {
		for _, id := range n.ApplicationIDs {
			if a, ok := m.apps[id]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// Communications returns the live communication list. Callers must not
// append to it.
func (m *Model) Communications() []*domain.ClassCommunication { return m.comms }

// CommunicationsTouching returns the communications whose source or target
// class is in classIDs, in model order.
func (m *Model) CommunicationsTouching(classIDs []string) []*domain.ClassCommunication {
	set := make(map[string]struct{}, len(classIDs))
	for _, id := range classIDs {
		set[id] = struct{}{}
	}
	var out []*domain.ClassCommunication
	for _, c := range m.comms {
		_, src := set[c.SourceClassID]
		_, tgt := set[c.TargetClassID]
		if src || tgt {
			out = append(out, c)
		}
	}
	return out
}

// ---------- Ancestry ----------

// ApplicationOf walks up from the package to its top-level ancestor and
// returns the owning application.
func (m *Model) ApplicationOf(pkgID string) (*domain.Application, bool) {
	p, ok := m.packages[pkgID]
	for ok && !p.IsTopLevel() {
		p, ok = m.packages[p.ParentID]
	}
	if !ok {
		return nil, false
	}
	return m.Application(p.ApplicationID)
}

// ClassApplication returns the application owning the class.
func (m *Model) ClassApplication(classID string) (*domain.Application, bool) {
	c, ok := m.classes[classID]
	if !ok {
		return nil, false
	}
	return m.ApplicationOf(c.PackageID)
}

// IsAncestor reports whether ancestorID is pkgID or one of its ancestors.
func (m *Model) IsAncestor(ancestorID, pkgID string) bool {
	for p, ok := m.packages[pkgID]; ok; p, ok = m.packages[p.ParentID] {
		if p.ID == ancestorID {
			return true
		}
	}
	return false
}

// SubtreePackageIDs returns pkgID and all its descendant package ids in
// pre-order.
func (m *Model) SubtreePackageIDs(pkgID string) []string {
	p, ok := m.packages[pkgID]
	if !ok {
		return nil
	}
	out := []string{p.ID}
	for _, sub := range p.SubPackageIDs {
		out = append(out, m.SubtreePackageIDs(sub)...)
	}
	return out
}

// SubtreeClassIDs returns the ids of every class below pkgID.
func (m *Model) SubtreeClassIDs(pkgID string) []string {
	var out []string
	for _, id := range m.SubtreePackageIDs(pkgID) {
		out = append(out, m.packages[id].ClassIDs...)
	}
	return out
}

// ApplicationSubtreeIDs returns the ids of every package and class in the
// application, packages first.
func (m *Model) ApplicationSubtreeIDs(appID string) (packageIDs, classIDs []string) {
	a, ok := m.apps[appID]
	if !ok {
		return nil, nil
	}
	for _, top := range a.PackageIDs {
		packageIDs = append(packageIDs, m.SubtreePackageIDs(top)...)
	}
	for _, id := range packageIDs {
		classIDs = append(classIDs, m.packages[id].ClassIDs...)
	}
	return packageIDs, classIDs
}

// ---------- Arena maintenance ----------

// PutNode stores n, appending it to the node order if new.
func (m *Model) PutNode(n *domain.Node) {
	if _, ok := m.nodes[n.ID]; !ok {
		m.nodeOrder = append(m.nodeOrder, n.ID)
	}
	m.nodes[n.ID] = n
}

// InsertNode stores n at position idx of the node order.
func (m *Model) InsertNode(n *domain.Node, idx int) {
	if _, ok := m.nodes[n.ID]; ok {
		m.nodes[n.ID] = n
		return
	}
	m.nodes[n.ID] = n
	m.nodeOrder = insertAt(m.nodeOrder, idx, n.ID)
}

// NodeIndex returns the position of the node in the node order, or -1.
func (m *Model) NodeIndex(id string) int { return slices.Index(m.nodeOrder, id) }

func (m *Model) DropNode(id string) {
	delete(m.nodes, id)
	m.nodeOrder = slices.DeleteFunc(m.nodeOrder, func(s string) bool { return s == id })
}

func (m *Model) PutApplication(a *domain.Application) { m.apps[a.ID] = a }
func (m *Model) DropApplication(id string)            { delete(m.apps, id) }
func (m *Model) PutPackage(p *domain.Package)         { m.packages[p.ID] = p }
func (m *Model) DropPackage(id string)                { delete(m.packages, id) }
func (m *Model) PutClass(c *domain.Class)             { m.classes[c.ID] = c }
func (m *Model) DropClass(id string)                  { delete(m.classes, id) }

// PutCommunication appends c, replacing an existing communication with the
// same id in place.
func (m *Model) PutCommunication(c *domain.ClassCommunication) {
	for i, existing := range m.comms {
		if existing.ID == c.ID {
			m.comms[i] = c
			return
		}
	}
	m.comms = append(m.comms, c)
}

// DropCommunication removes the communication with id.
func (m *Model) DropCommunication(id string) {
	m.comms = slices.DeleteFunc(m.comms, func(c *domain.ClassCommunication) bool { return c.ID == id })
}

// insertAt inserts v into s at idx, clamping idx into range.
func insertAt(s []string, idx int, v string) []string {
	if idx < 0 || idx > len(s) {
		idx = len(s)
	}
	return slices.Insert(s, idx, v)
}

// InsertID is insertAt for callers outside the package.
func InsertID(s []string, idx int, v string) []string { return insertAt(s, idx, v) }

// RemoveID removes v from s and returns the new slice and v's former index.
func RemoveID(s []string, v string) ([]string, int) {
	idx := slices.Index(s, v)
	if idx < 0 {
		return s, -1
	}
	return slices.Delete(s, idx, idx+1), idx
}

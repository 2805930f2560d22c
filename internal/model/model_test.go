package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

func sample() domain.Landscape {
	return domain.Landscape{
		Token: "tok",
		Nodes: []domain.StructureNode{{
			ID: "n1", HostName: "h1",
			Applications: []domain.StructureApplication{{
				ID: "app", Name: "app",
				Packages: []domain.StructurePackage{{
					ID: "root", Name: "root",
					SubPackages: []domain.StructurePackage{{
						ID: "leaf", Name: "leaf",
						Classes: []domain.StructureClass{{ID: "B", Name: "B"}},
					}},
					Classes: []domain.StructureClass{{ID: "A", Name: "A", Methods: []domain.Method{{Name: "run"}}}},
				}},
			}},
		}},
		Communications: []domain.ClassCommunication{
			{ID: "ab", SourceClassID: "A", TargetClassID: "B", SourceAppID: "stale", OperationName: "call"},
		},
	}
}

func TestFromStructure(t *testing.T) {
	m, err := model.FromStructure(sample())
	require.NoError(t, err)

	leaf, ok := m.Package("leaf")
	require.True(t, ok)
	assert.Equal(t, "root", leaf.ParentID)
	assert.False(t, leaf.IsTopLevel())

	app, ok := m.ApplicationOf("leaf")
	require.True(t, ok)
	assert.Equal(t, "app", app.ID)

	a, _ := m.Class("A")
	require.Len(t, a.Methods, 1)
	assert.Len(t, a.Methods[0].Hash, 32)

	c, ok := m.Communication("ab")
	require.True(t, ok)
	assert.Equal(t, "app", c.SourceAppID, "app ids are derived from the tree")

	assert.Equal(t, []string{"root", "leaf"}, m.SubtreePackageIDs("root"))
	assert.ElementsMatch(t, []string{"A", "B"}, m.SubtreeClassIDs("root"))
	assert.True(t, m.IsAncestor("root", "leaf"))
	assert.False(t, m.IsAncestor("leaf", "root"))
}

func TestFromStructure_RejectsDuplicates(t *testing.T) {
	ls := sample()
	ls.Nodes[0].Applications[0].Packages[0].Classes = append(
		ls.Nodes[0].Applications[0].Packages[0].Classes, domain.StructureClass{ID: "B"})

	_, err := model.FromStructure(ls)
	assert.True(t, errors.Is(err, domain.ErrDuplicateID), "got %v", err)
}

func TestFromStructure_DanglingCommunication(t *testing.T) {
	ls := sample()
	ls.Communications[0].TargetClassID = "ghost"

	_, err := model.FromStructure(ls)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStructureRoundTripKeepsFingerprint(t *testing.T) {
	m, err := model.FromStructure(sample())
	require.NoError(t, err)

	back, err := model.FromStructure(m.Structure())
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint(), back.Fingerprint())
}

func TestClone_IsIndependent(t *testing.T) {
	m, err := model.FromStructure(sample())
	require.NoError(t, err)
	before := m.Fingerprint()

	cp := m.Clone()
	root, _ := cp.Package("root")
	root.Name = "renamed"
	leaf, _ := cp.Package("leaf")
	leaf.ClassIDs = append(leaf.ClassIDs, "A")
	a, _ := cp.Class("A")
	a.Methods[0].Name = "walk"
	cp.DropCommunication("ab")

	assert.Equal(t, before, m.Fingerprint())
	orig, _ := m.Package("root")
	assert.Equal(t, "root", orig.Name)
	origLeaf, _ := m.Package("leaf")
	assert.Equal(t, []string{"B"}, origLeaf.ClassIDs)
	origA, _ := m.Class("A")
	assert.Equal(t, "run", origA.Methods[0].Name)
	assert.Len(t, m.Communications(), 1)
	assert.NotEqual(t, before, cp.Fingerprint())
}

func TestStructure_SkipsDanglingChildIDs(t *testing.T) {
	m, err := model.FromStructure(sample())
	require.NoError(t, err)
	before := m.Fingerprint()

	root, _ := m.Package("root")
	root.ClassIDs = append(root.ClassIDs, "ghost")
	root.SubPackageIDs = append(root.SubPackageIDs, "ghostPkg")
	app, _ := m.Application("app")
	app.PackageIDs = append(app.PackageIDs, "ghostTop")

	var ls domain.Landscape
	require.NotPanics(t, func() { ls = m.Structure() })
	require.Len(t, ls.Nodes[0].Applications[0].Packages, 1)
	assert.Len(t, ls.Nodes[0].Applications[0].Packages[0].Classes, 1)
	assert.Len(t, ls.Nodes[0].Applications[0].Packages[0].SubPackages, 1)
	assert.Equal(t, before, m.Fingerprint())
}

func TestInsertAndRemoveID(t *testing.T) {
	s := model.InsertID([]string{"a", "c"}, 1, "b")
	assert.Equal(t, []string{"a", "b", "c"}, s)

	s = model.InsertID(s, -1, "d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, s)

	s, idx := model.RemoveID(s, "b")
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"a", "c", "d"}, s)

	_, idx = model.RemoveID(s, "zz")
	assert.Equal(t, -1, idx)
}

func TestNodeOrder(t *testing.T) {
	m := model.New("tok")
	m.PutNode(&domain.Node{ID: "a"})
	m.PutNode(&domain.Node{ID: "c"})
	m.InsertNode(&domain.Node{ID: "b"}, 1)

	var ids []string
	for _, n := range m.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 2, m.NodeIndex("c"))

	m.DropNode("b")
	assert.Equal(t, -1, m.NodeIndex("b"))
}

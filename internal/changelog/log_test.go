package changelog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaper/internal/changelog"
	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/treeops"
)

// shop is an application with a "checkout" package holding Cart (cart1) and
// Payment, a "catalog" package holding Item, and one communication
// Cart -> Item.
func shop(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.FromStructure(domain.Landscape{
		Token: "tok",
		Nodes: []domain.StructureNode{{
			ID: "node1",
			Applications: []domain.StructureApplication{{
				ID: "shop", Name: "shop",
				Packages: []domain.StructurePackage{
					{ID: "checkout", Name: "checkout", Classes: []domain.StructureClass{
						{ID: "cart1", Name: "Cart"},
						{ID: "payment", Name: "Payment"},
					}},
					{ID: "catalog", Name: "catalog", Classes: []domain.StructureClass{
						{ID: "item", Name: "Item"},
					}},
				},
			}},
		}},
		Communications: []domain.ClassCommunication{
			{ID: "cart-item", SourceClassID: "cart1", TargetClassID: "item", OperationName: "get"},
		},
	})
	require.NoError(t, err)
	return m
}

func ids(l *changelog.Log) []string {
	var out []string
	for _, e := range l.Entries() {
		out = append(out, e.ID())
	}
	return out
}

func pkg(t *testing.T, m *model.Model, id string) *domain.Package {
	t.Helper()
	p, ok := m.Package(id)
	require.True(t, ok)
	return p
}

func class(t *testing.T, m *model.Model, id string) *domain.Class {
	t.Helper()
	c, ok := m.Class(id)
	require.True(t, ok)
	return c
}

func renameClass(l *changelog.Log, m *model.Model, c *domain.Class, name string) {
	old := treeops.RenameClass(c, name)
	l.Rename(domain.LocalEdit, m, c.ID, old, name)
}

func renamePackage(l *changelog.Log, m *model.Model, p *domain.Package, name string) {
	old := treeops.RenamePackage(p, name)
	l.Rename(domain.LocalEdit, m, p.ID, old, name)
}

func deleteClass(l *changelog.Log, m *model.Model, c *domain.Class) bool {
	cancelled := l.Delete(m, c.ID)
	treeops.RemoveClassFromPackage(m, c)
	return cancelled
}

func deletePackage(l *changelog.Log, m *model.Model, p *domain.Package) bool {
	cancelled := l.Delete(m, p.ID)
	treeops.RemovePackageFromApplication(m, p)
	return cancelled
}

// TestScenario_CreateDeleteRename walks through the create / cancel /
// coalesced rename sequence on the shop landscape.
func TestScenario_CreateDeleteRename(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	checkout := pkg(t, m, "checkout")

	cart2 := treeops.AddClass(m, checkout, "Cart2", treeops.NextSeq(m, 1))
	l.Create(m, cart2.ID)
	require.Equal(t, 1, l.Len())
	e := l.Entries()[0]
	assert.Equal(t, changelog.Create, e.Head().Action)
	assert.Equal(t, "Cart2", e.Head().Name)
	assert.Equal(t, domain.KindClass, e.Kind())

	assert.True(t, deleteClass(l, m, cart2))
	assert.Zero(t, l.Len())

	renamePackage(l, m, checkout, "billing")
	require.Equal(t, []string{"checkout#RENAME"}, ids(l))
	assert.Equal(t, "billing", l.Entries()[0].Head().Name)

	renamePackage(l, m, checkout, "payments")
	require.Equal(t, 1, l.Len())
	h := l.Entries()[0].Head()
	assert.Equal(t, changelog.Rename, h.Action)
	assert.Equal(t, "payments", h.Name)
	assert.Equal(t, "checkout", h.OriginalName)

	assert.Equal(t, []string{`Renamed package "checkout" to "payments"`}, l.Lines(m))
}

func TestCreateCancellation_DropsSubtreeEntries(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	seq := treeops.NextSeq(m, 1)
	app, _ := m.Application("shop")
	p, placeholder := treeops.AddPackage(m, app, "fresh", seq)
	l.Create(m, p.ID)
	l.Create(m, placeholder.ID)
	c := treeops.AddClass(m, p, "Extra", treeops.NextSeq(m, seq+1))
	l.Create(m, c.ID)
	renameClass(l, m, c, "Extra2")

	comm := treeops.AddCommunication(m, c, class(t, m, "item"), "find")
	l.AddCommunication(m, comm.ID)
	require.Equal(t, 4, l.Len())
	assert.Equal(t, "Extra2", l.Entries()[2].Head().Name, "rename folds into the create entry")

	assert.True(t, deletePackage(l, m, p))
	assert.Zero(t, l.Len())
}

func TestRenameUndo_RemovesEntry(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	cart := class(t, m, "cart1")

	renameClass(l, m, cart, "Basket")
	require.Equal(t, 1, l.Len())

	old := treeops.RenameClass(cart, "Cart")
	l.Rename(domain.LocalUndo, m, cart.ID, old, "Cart")
	assert.Zero(t, l.Len())
}

// TestRestoreOrdering deletes a package whose children have pending entries
// and checks restore brings them back as one ordered block.
func TestRestoreOrdering(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	checkout := pkg(t, m, "checkout")

	renamePackage(l, m, pkg(t, m, "catalog"), "products")
	renameClass(l, m, class(t, m, "cart1"), "C1")
	renameClass(l, m, class(t, m, "payment"), "C2")
	renamePackage(l, m, checkout, "P")

	assert.False(t, deletePackage(l, m, checkout))
	assert.Equal(t, []string{"catalog#RENAME", "checkout#DELETE"}, ids(l))
	del, ok := l.Entry("checkout#DELETE")
	require.True(t, ok)
	assert.Equal(t, "checkout", del.Head().OriginalName)
	assert.True(t, l.Deleted("checkout"))

	require.True(t, l.RestoreDeletedEntries("checkout"))
	assert.Equal(t, []string{"catalog#RENAME", "cart1#RENAME", "payment#RENAME", "checkout#RENAME"}, ids(l))
	assert.False(t, l.Deleted("checkout"))
}

// TestRestore_NestedBuckets deletes a class, then its package, and restores
// them in the opposite order.
func TestRestore_NestedBuckets(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	checkout := pkg(t, m, "checkout")

	renameClass(l, m, class(t, m, "cart1"), "Basket")
	deleteClass(l, m, class(t, m, "cart1"))
	assert.Equal(t, []string{"cart1#DELETE"}, ids(l))

	renamePackage(l, m, checkout, "billing")
	deletePackage(l, m, checkout)
	assert.Equal(t, []string{"checkout#DELETE"}, ids(l))

	// cart1's Delete entry lives in checkout's bucket now.
	require.True(t, l.RestoreDeletedEntries("cart1"))
	assert.Equal(t, []string{"checkout#DELETE"}, ids(l))

	require.True(t, l.RestoreDeletedEntries("checkout"))
	assert.Equal(t, []string{"cart1#RENAME", "checkout#RENAME"}, ids(l))
}

func TestRestore_MissingDeleteEntryIsNoop(t *testing.T) {
	m := shop(t)
	l := changelog.New()

	assert.False(t, l.RestoreDeletedEntries("nope"))

	deleteClass(l, m, class(t, m, "payment"))
	l.RemoveEntries("payment#DELETE")
	assert.False(t, l.RestoreDeletedEntries("payment"))
	assert.True(t, l.Deleted("payment"), "bucket is kept")
	assert.Zero(t, l.Len())
}

func TestDeleteCommunication(t *testing.T) {
	m := shop(t)
	l := changelog.New()

	comm, ok := m.Communication("cart-item")
	require.True(t, ok)
	old := treeops.RenameOperation(m, comm, "fetch")
	l.Rename(domain.LocalEdit, m, comm.ID, old, "fetch")

	assert.False(t, l.Delete(m, comm.ID))
	treeops.RemoveCommunication(m, comm)
	require.Equal(t, []string{"cart-item#DELETE"}, ids(l))
	del := l.Entries()[0].(*changelog.CommunicationEntry)
	assert.Equal(t, "get", del.OriginalName)
	assert.Equal(t, "cart1", del.Communication.SourceClassID)

	require.True(t, l.RestoreDeletedEntries("cart-item"))
	assert.Equal(t, []string{"cart-item#RENAME"}, ids(l))
}

func TestDeleteClass_TakesCommunicationEntries(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	payment := class(t, m, "payment")
	comm := treeops.AddCommunication(m, class(t, m, "item"), payment, "charge")
	l.AddCommunication(m, comm.ID)

	deleteClass(l, m, payment)
	assert.Equal(t, []string{"payment#DELETE"}, ids(l))

	require.True(t, l.RestoreDeletedEntries("payment"))
	assert.Equal(t, []string{"item_payment_charge#COMMUNICATION"}, ids(l))
}

func TestCutInsert_KeepsFirstOrigin(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	payment := class(t, m, "payment")

	origin, ok := changelog.LocationOf(m, payment.ID)
	require.True(t, ok)
	assert.Equal(t, changelog.Location{ParentKind: domain.KindPackage, ParentID: "checkout", Index: 1}, origin)

	treeops.MoveClass(m, payment, pkg(t, m, "catalog"))
	l.CutInsert(m, payment.ID, origin)

	second, _ := changelog.LocationOf(m, payment.ID)
	treeops.MoveClass(m, payment, pkg(t, m, "checkout"))
	l.CutInsert(m, payment.ID, second)

	require.Equal(t, []string{"payment#CUT_INSERT"}, ids(l))
	e := l.Entries()[0]
	got, ok := changelog.OriginOf(e)
	require.True(t, ok)
	assert.Equal(t, origin, got)
	assert.Equal(t, "checkout", e.(*changelog.ClassEntry).PackageID)
}

func TestCutInsert_CreatedEntityFollowsMove(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	app, _ := m.Application("shop")
	seq := treeops.NextSeq(m, 1)
	p, c := treeops.AddPackage(m, app, "fresh", seq)
	l.Create(m, p.ID)
	l.Create(m, c.ID)

	origin, _ := changelog.LocationOf(m, p.ID)
	treeops.MovePackage(m, p, treeops.ToPackage(pkg(t, m, "catalog")))
	l.CutInsert(m, p.ID, origin)

	require.Equal(t, 2, l.Len())
	sub, ok := l.Entries()[0].(*changelog.SubPackageEntry)
	require.True(t, ok, "package became a sub-package")
	assert.Equal(t, changelog.Create, sub.Action)
	assert.Equal(t, "catalog", sub.ParentID)
	assert.Equal(t, "shop", sub.AppID)
}

func TestCreateBundle(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	seq := treeops.NextSeq(m, 1)
	treeops.AddFoundation(m, "billing", "go", seq)
	ids := treeops.IDsForSeq(seq)
	l.Create(m, ids.App)
	l.Create(m, ids.Package)
	l.Create(m, ids.Class)

	classEntry, ok := l.Entry(changelog.EntryID(ids.Class, changelog.Create))
	require.True(t, ok)
	bundle := l.CreateBundle(m, classEntry)
	require.Len(t, bundle, 3)
	assert.Equal(t, ids.App, bundle[0].Head().EntityID)
	assert.Equal(t, ids.Class, bundle[2].Head().EntityID)

	p, _ := m.Package(ids.Package)
	extra := treeops.AddClass(m, p, "Extra", treeops.NextSeq(m, seq+1))
	l.Create(m, extra.ID)
	extraEntry, _ := l.Entry(changelog.EntryID(extra.ID, changelog.Create))
	assert.Len(t, l.CreateBundle(m, extraEntry), 1, "package has two children")
}

func TestCopyPasteCancelsLikeCreate(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	f := treeops.CopyClassContent(class(t, m, "item"))
	prefix := treeops.FreshPrefix(m, treeops.CopyBase, f)
	treeops.ChangeID(f, prefix)
	cls, _, _ := treeops.PasteClass(m, f, pkg(t, m, "checkout"), prefix)
	l.CopyPaste(m, cls.ID)
	require.Equal(t, 1, l.Len())

	assert.True(t, deleteClass(l, m, cls))
	assert.Zero(t, l.Len())
}

func TestLines_OnePerEntry(t *testing.T) {
	m := shop(t)
	l := changelog.New()
	cart := class(t, m, "cart1")
	item := class(t, m, "item")
	renameClass(l, m, cart, "Basket")
	comm := treeops.AddCommunication(m, item, cart, "notify")
	l.AddCommunication(m, comm.ID)

	lines := l.Lines(m)
	require.Len(t, lines, 2)
	assert.Equal(t, `Renamed class "Cart" to "Basket"`, lines[0])
	assert.Equal(t, `Added communication Item -> Basket calling "notify"`, lines[1])
}

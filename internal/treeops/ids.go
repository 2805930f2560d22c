package treeops

import (
	"fmt"

	"landscaper/internal/model"
)

const (
	// DuplicateBase prefixes the ids of a duplicated application.
	DuplicateBase = "duplicated"
	// CopyBase prefixes the ids of a pasted copy.
	CopyBase = "copied"
)

// FreshPrefix returns the first of "base|", "base2|", "base3|", ... under
// which no id that ChangeID rewrites in f collides with an id in m. That
// covers every node, application, package and class of f, and the
// communications of f's classes, which are cloned under the same prefix. The
// result only depends on the model, so replicas holding the same model agree
// on it.
func FreshPrefix(m *model.Model, base string, f Fragment) string {
	ids, classIDs := f.ids()
	for _, c := range m.CommunicationsTouching(classIDs) {
		ids = append(ids, c.ID)
	}
	prefix := base + "|"
	for n := 2; collides(m, prefix, ids); n++ {
		prefix = fmt.Sprintf("%s%d|", base, n)
	}
	return prefix
}

func collides(m *model.Model, prefix string, ids []string) bool {
	for _, id := range ids {
		if m.Has(prefix + id) {
			return true
		}
	}
	return false
}

// SeqIDs are the ids minted for one create operation.
type SeqIDs struct {
	Node    string
	App     string
	Package string
	Class   string
}

// IDsForSeq derives the ids of entities created with sequence number seq.
func IDsForSeq(seq int) SeqIDs {
	return SeqIDs{
		Node:    fmt.Sprintf("newNode%d", seq),
		App:     fmt.Sprintf("newApp%d", seq),
		Package: fmt.Sprintf("newPackage%d", seq),
		Class:   fmt.Sprintf("newClass%d", seq),
	}
}

// NextSeq returns the smallest sequence number >= from whose ids are all unused.
func NextSeq(m *model.Model, from int) int {
	if from < 1 {
		from = 1
	}
	for seq := from; ; seq++ {
		ids := IDsForSeq(seq)
		if !m.Has(ids.Node) && !m.Has(ids.App) && !m.Has(ids.Package) && !m.Has(ids.Class) {
			return seq
		}
	}
}

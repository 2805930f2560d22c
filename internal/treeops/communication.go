package treeops

import (
	"fmt"

	"landscaper/internal/crypto"
	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// CommunicationID is the id given to a communication created by a user. It
// only depends on the endpoints and the operation, so every replica derives
// the same id.
func CommunicationID(sourceClassID, targetClassID, methodName string) string {
	return fmt.Sprintf("%s_%s_%s", sourceClassID, targetClassID, methodName)
}

// AddCommunication creates a communication from src to tgt calling method
// and makes sure tgt declares that method. If a communication with the same
// id exists it is returned unchanged.
func AddCommunication(m *model.Model, src, tgt *domain.Class, method string) *domain.ClassCommunication {
	id := CommunicationID(src.ID, tgt.ID, method)
	if existing, ok := m.Communication(id); ok {
		return existing
	}
	srcApp, _ := m.ClassApplication(src.ID)
	tgtApp, _ := m.ClassApplication(tgt.ID)
	c := &domain.ClassCommunication{
		ID:            id,
		SourceClassID: src.ID,
		TargetClassID: tgt.ID,
		OperationName: method,
		Recursive:     src.ID == tgt.ID,
	}
	if srcApp != nil {
		c.SourceAppID = srcApp.ID
	}
	if tgtApp != nil {
		c.TargetAppID = tgtApp.ID
	}
	for _, other := range m.Communications() {
		if other.SourceClassID == tgt.ID && other.TargetClassID == src.ID {
			other.Bidirectional = true
			c.Bidirectional = true
		}
	}
	ensureMethod(tgt, method)
	m.PutCommunication(c)
	return c
}

// RemoveCommunication drops c from the model. The target method is kept.
func RemoveCommunication(m *model.Model, c *domain.ClassCommunication) {
	m.DropCommunication(c.ID)
	for _, other := range m.Communications() {
		if other.SourceClassID == c.TargetClassID && other.TargetClassID == c.SourceClassID {
			other.Bidirectional = false
		}
	}
}

// RestoreCommunication puts a previously removed communication back if both
// of its classes exist. It reports whether it did.
func RestoreCommunication(m *model.Model, c domain.ClassCommunication) bool {
	before := len(m.Communications())
	restoreCommunications(m, []*domain.ClassCommunication{&c})
	return len(m.Communications()) > before
}

// RenameOperation renames the operation of c, and the matching method of the
// target class, returning the previous name.
func RenameOperation(m *model.Model, c *domain.ClassCommunication, name string) (old string) {
	old, c.OperationName = c.OperationName, name
	if tgt, ok := m.Class(c.TargetClassID); ok {
		for i := range tgt.Methods {
			if tgt.Methods[i].Name == old {
				tgt.Methods[i].Name = name
				tgt.Methods[i].Hash = crypto.MethodHash(name)
				break
			}
		}
	}
	return old
}

func ensureMethod(c *domain.Class, name string) {
	for _, meth := range c.Methods {
		if meth.Name == name {
			return
		}
	}
	c.Methods = append(c.Methods, domain.Method{Name: name, Hash: crypto.MethodHash(name)})
}

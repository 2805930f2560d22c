package changelog

import (
	"fmt"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// Lines renders one human-readable line per live entry, in log order.
// Container names are looked up in m and fall back to ids.
func (l *Log) Lines(m *model.Model) []string {
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, Describe(m, e))
	}
	return out
}

// Describe renders a single entry.
func Describe(m *model.Model, e Entry) string {
	h := e.Head()
	label := kindLabel(e.Kind())

	if c, ok := e.(*CommunicationEntry); ok {
		src, tgt := className(m, c.Communication.SourceClassID), className(m, c.Communication.TargetClassID)
		switch h.Action {
		case Communication:
			return fmt.Sprintf("Added communication %s -> %s calling %q", src, tgt, h.Name)
		case Rename:
			return fmt.Sprintf("Renamed operation %q of %s -> %s to %q", h.OriginalName, src, tgt, h.Name)
		case Delete:
			return fmt.Sprintf("Deleted communication %s -> %s calling %q", src, tgt, h.OriginalName)
		}
	}

	switch h.Action {
	case Create:
		return fmt.Sprintf("Created %s %q%s", label, h.Name, where(m, e, "in"))
	case Rename:
		return fmt.Sprintf("Renamed %s %q to %q", label, h.OriginalName, h.Name)
	case Delete:
		return fmt.Sprintf("Deleted %s %q%s", label, h.OriginalName, where(m, e, "from"))
	case CopyPaste:
		return fmt.Sprintf("Pasted copy of %s %q%s", label, h.Name, where(m, e, "into"))
	case CutInsert:
		return fmt.Sprintf("Moved %s %q%s", label, h.Name, where(m, e, "to"))
	}
	return fmt.Sprintf("%s %s %q", h.Action, label, h.Name)
}

func where(m *model.Model, e Entry, prep string) string {
	switch v := e.(type) {
	case *PackageEntry:
		return fmt.Sprintf(" %s application %s", prep, appName(m, v.AppID))
	case *SubPackageEntry:
		return fmt.Sprintf(" %s package %s (%s)", prep, packageName(m, v.ParentID), appName(m, v.AppID))
	case *ClassEntry:
		return fmt.Sprintf(" %s package %s (%s)", prep, packageName(m, v.PackageID), appName(m, v.AppID))
	}
	return ""
}

func kindLabel(k domain.EntityKind) string {
	switch k {
	case domain.KindApp:
		return "application"
	case domain.KindPackage:
		return "package"
	case domain.KindSubPackage:
		return "sub-package"
	case domain.KindClass:
		return "class"
	case domain.KindCommunication:
		return "communication"
	}
	return string(k)
}

func appName(m *model.Model, id string) string {
	if a, ok := m.Application(id); ok {
		return fmt.Sprintf("%q", a.Name)
	}
	return fmt.Sprintf("%q", id)
}

func packageName(m *model.Model, id string) string {
	if p, ok := m.Package(id); ok {
		return fmt.Sprintf("%q", p.Name)
	}
	return fmt.Sprintf("%q", id)
}

func className(m *model.Model, id string) string {
	if c, ok := m.Class(id); ok {
		return c.Name
	}
	return id
}

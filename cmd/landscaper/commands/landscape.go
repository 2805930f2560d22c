package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"landscaper/internal/app"
	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/store"
)

// open resolves arg as a snapshot file when it exists, else as a token.
func open(ctx context.Context, arg string) (*app.App, error) {
	if _, err := os.Stat(arg); err == nil {
		ls, err := store.ReadLandscapeFile(arg)
		if err != nil {
			return nil, err
		}
		return wire.OpenLandscape(ctx, ls)
	}
	return wire.Open(ctx, domain.LandscapeToken(arg))
}

// printTree writes the node/application/package/class hierarchy of m,
// followed by its communications.
func printTree(w io.Writer, m *model.Model) {
	fmt.Fprintf(w, "landscape %s  fingerprint %s\n", m.Token(), m.Fingerprint())
	for _, n := range m.Nodes() {
		fmt.Fprintf(w, "node %s %s\n", n.ID, n.HostName)
		for _, appID := range n.ApplicationIDs {
			a, ok := m.Application(appID)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  app %s (%s) [%s]\n", a.Name, a.ID, a.Language)
			for _, pkgID := range a.PackageIDs {
				printPackage(w, m, pkgID, 2)
			}
		}
	}
	if comms := m.Communications(); len(comms) > 0 {
		fmt.Fprintln(w, "communications")
		for _, c := range comms {
			fmt.Fprintf(w, "  %s -> %s %q (%s)\n", c.SourceClassID, c.TargetClassID, c.OperationName, c.ID)
		}
	}
}

func printPackage(w io.Writer, m *model.Model, id string, depth int) {
	p, ok := m.Package(id)
	if !ok {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%spackage %s (%s)\n", indent, p.Name, p.ID)
	for _, sub := range p.SubPackageIDs {
		printPackage(w, m, sub, depth+1)
	}
	for _, cid := range p.ClassIDs {
		if c, ok := m.Class(cid); ok {
			fmt.Fprintf(w, "%s  class %s (%s)\n", indent, c.Name, c.ID)
		}
	}
}

func printChangelog(w io.Writer, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "no changes")
		return
	}
	for i, l := range lines {
		fmt.Fprintf(w, "%3d. %s\n", i+1, l)
	}
}

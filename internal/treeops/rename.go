package treeops

import "landscaper/internal/domain"

// RenameApplication sets the name and returns the previous one.
func RenameApplication(a *domain.Application, name string) (old string) {
	old, a.Name = a.Name, name
	return old
}

// RenamePackage sets the name and returns the previous one.
func RenamePackage(p *domain.Package, name string) (old string) {
	old, p.Name = p.Name, name
	return old
}

// RenameClass sets the name and returns the previous one.
func RenameClass(c *domain.Class, name string) (old string) {
	old, c.Name = c.Name, name
	return old
}

// Package domain defines the landscape data model, edit context and the
// contracts shared across the app. It contains plain types (wire/state),
// sentinel errors and interfaces only.
package domain

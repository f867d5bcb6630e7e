// Package model declares the persisted entities and registers them for
// migration.
package model

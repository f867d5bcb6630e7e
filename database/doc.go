// Package database provides connection management, migrations for registered
// models, YAML fixture seeding, query hooks, driver error classification and
// health checks built on top of Bun.
package database

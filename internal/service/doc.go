// Package service contains the application's orchestration layer: the
// credential store operations around users, the ownership-scoped task
// query engine, and the cascade deletion coordinator. Services depend on
// the store interfaces, never on a concrete database.
package service

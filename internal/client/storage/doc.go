// Package storage opens the key-value backend selected in the configuration.
//
// # Backends
//
//   - sqlite: a local file (see InitDatabase) whose directory is created on
//     demand; the schema is applied with the embedded goose migrations on
//     every start, which is idempotent.
//   - redis:  a Redis server; keys are namespaced with the configured prefix.
//   - memory: process memory; everything is lost on exit.
//
// Open returns the metadata.Repository together with a close function that
// releases the underlying connection.
package storage

// Package internal contains the implementation packages of the stencil CLI.
//
//   - config: configuration loading, defaults and validation
//   - errors: typed failures with the path or name needed to diagnose them
//   - logging: structured logging over log/slog
//   - filemap: flattening template and style trees into name-addressed maps
//   - merge: structured-data merging and globals loading
//   - renderer: html/template rendering with inbuilt partials
//   - build: page registry, output writer and its collaborators
//   - server: development file resolver and HTTP server
//   - site: the build session tying the above together
//   - version: build information
package internal

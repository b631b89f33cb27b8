// Package blog implements the authentication and request-dispatch core of a
// blog service: JWT issuance and validation, role-based authorization rules,
// a validate/authenticate/authorize/execute/commit pipeline for every
// mutating operation, and bun-backed repositories for users and posts.
//
// HTTP routing, template rendering, and process bootstrap live outside this
// package; see examples/ for a complete wired application.
package blog

// Package storage provides the object storage client used for archiving raw
// source payloads.
//
// The Client interface wraps the Minio SDK with the subset of operations the
// tracker needs; the archive is append-only, so delete operations are not
// part of the contract. A testify-based mock lives in the mocks subpackage.
package storage

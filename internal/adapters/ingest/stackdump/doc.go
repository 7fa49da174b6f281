// Package stackdump streams rows out of Stack Exchange style XML dumps
//
// Design choices:
// - Token-level encoding/xml decoding; each matched row element is read for its
//   attributes and its content skipped, so memory stays flat regardless of dump size.
// - Compression is sniffed from magic bytes (gzip, zstd, bzip2); 7z archives are rejected.
// - Structural XML errors are fatal and reported as ErrorCodeStream; there is no recovery.
// - Inputs are local paths, "-" for stdin, or http(s) URLs.
package stackdump

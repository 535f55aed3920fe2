// Package version exposes build metadata for the searchkit binary.
//
// Set it at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/searchkit/version.Version=1.2.3 \
//	  -X github.com/ncobase/searchkit/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/searchkit/version.BuiltAt=$(date -u +%FT%TZ)'" \
//	  ./cmd/searchkit
//
// Values left unset fall back to the VCS information embedded by the Go
// toolchain.
package version

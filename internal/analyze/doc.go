// Package analyze loads Go packages and converts their exported struct
// types into record shapes.
//
// It uses golang.org/x/tools/go/packages with go/types. Field conversion:
//   - basic kinds, time.Time, time.Duration and uuid.UUID become primitives
//   - named struct types become nested records
//   - pointers add optional and nullable presence
//   - interface fields tagged `shape:"name,union=disc"` with
//     `variants:"A,B"` become tagged unions over the sibling structs A and B
//
// The shape tag is `shape:"name,optional,nullable,const=value"`; "-" skips
// the field. Self-referencing structs yield cyclic shapes.
package analyze

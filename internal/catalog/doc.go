// Package catalog loads shape declarations from YAML, validates them,
// builds the immutable shapes and runs the declared derivations.
//
// # Schema Overview
//
//	version: "1"
//	records:
//	  - name: Person
//	    fields:
//	      - {name: firstName, type: string}
//	      - {name: contacts, record: Contacts}
//	      - {name: fiscalId, union: FiscalId, optional: true}
//	  - name: UsaId
//	    fields:
//	      - {name: country, const: usa}
//	      - {name: ssn, type: string}
//	unions:
//	  - name: FiscalId
//	    discriminant: country
//	    variants: [UsaId, ItalyId]
//	factories:
//	  - name: RectangleArea
//	    params: [{base: float}, {height: float}]
//	    result: float
//	    expr: base * height
//	  - name: DefaultCountry
//	    result: string
//	    value: usa
//	derive:
//	  - {name: PartialPerson, rule: deep_optional, from: Person}
//	  - {name: FiscalById, rule: index, from: FiscalId}
//	  - {name: UsaOnly, rule: find, from: FiscalId, value: usa}
//
// # Fields
//
// A field declares exactly one of type (a primitive name), record, union or
// const. optional and nullable widen its presence.
//
// # Factories
//
// A factory declares exactly one of value (a literal slot), expr, cel or js
// (compiled slots). Sources are compiled when the catalog is built, so
// identifiers the signature does not declare fail at load time.
//
// # Rules
//
//   - deep_optional: every field of the record, recursively, may be absent
//   - deep_nullable: same walk, fields may also be null
//   - widen: one field (field:) becomes optional and nullable
//   - find: the variant of a union whose discriminant equals value
//   - index: the union as a map from discriminant value to variant
package catalog

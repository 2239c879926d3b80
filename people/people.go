// Package people declares the structs the analyzer tests import as shapes.
package people

import (
	"time"

	"github.com/google/uuid"
)

// Contacts is how a person can be reached.
type Contacts struct {
	Email string  `shape:"email"`
	Phone *string `shape:"phone"`
}

// FiscalID is implemented by the per-country fiscal identifiers.
type FiscalID interface {
	isFiscalID()
}

// UsaID is a US fiscal identifier.
type UsaID struct {
	Country string `shape:"country,const=usa"`
	SSN     string `shape:"ssn"`
}

// ItalyID is an Italian fiscal identifier.
type ItalyID struct {
	Country       string `shape:"country,const=italy"`
	CodiceFiscale string `shape:"codiceFiscale"`
}

func (UsaID) isFiscalID()   {}
func (ItalyID) isFiscalID() {}

// Person is the root record.
type Person struct {
	ID        uuid.UUID `shape:"id"`
	FirstName string    `shape:"firstName"`
	Age       int       `shape:"age,optional"`
	Contacts  Contacts  `shape:"contacts"`
	FiscalID  FiscalID  `shape:"fiscalId,union=country" variants:"UsaID,ItalyID"`
	Manager   *Person   `shape:"manager"`
	Tags      []string  `shape:"-"`

	updatedAt time.Time
}

// Touch records a modification.
func (p *Person) Touch(now time.Time) {
	p.updatedAt = now
}

// Audit carries bookkeeping fields without shape tags.
type Audit struct {
	CreatedAt time.Time
	TTL       time.Duration
	Score     float64
	Active    bool
	Note      *string
}

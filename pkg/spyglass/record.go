package spyglass

import "fmt"

// Record is an immutable change record: which subject changed, which
// attribute, and the value it changed to. The value is an opaque payload; no
// schema is imposed and no equality is defined. Records are passed by value.
type Record struct {
	Subject   Subject
	Attribute string
	Value     any
}

// NewRecord constructs a Record. The subject must be non-nil; attribute and
// value are unconstrained.
func NewRecord(subject Subject, attribute string, value any) Record {
	if subject == nil {
		panic("spyglass: record subject must not be nil")
	}
	return Record{
		Subject:   subject,
		Attribute: attribute,
		Value:     value,
	}
}

// String implements fmt.Stringer for log output.
func (r Record) String() string {
	return fmt.Sprintf("%s.%s = %v", r.Subject.SubjectID(), r.Attribute, r.Value)
}

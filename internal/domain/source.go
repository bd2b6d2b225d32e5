package domain

// SourceKind is the transport used to reach a ticker source.
type SourceKind string

const (
	SourceKindHTTP   SourceKind = "http"
	SourceKindStream SourceKind = "stream"
)

// IsValid checks if the kind is a valid value.
func (k SourceKind) IsValid() bool {
	return k == SourceKindHTTP || k == SourceKindStream
}

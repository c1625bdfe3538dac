package domain

// DocumentKind tags the shape of a manifest after it has been read.
type DocumentKind int

const (
	DocumentFreeText DocumentKind = iota
	DocumentTabular
)

func (k DocumentKind) String() string {
	switch k {
	case DocumentTabular:
		return "tabular"
	default:
		return "free-text"
	}
}

// Raw manifest content ready for address extraction.
// Free-text documents carry Lines (page order, top to bottom); tabular
// documents carry Rows plus the row offset and column designator to read.
type Document struct {
	Kind          DocumentKind
	Lines         []string
	Rows          [][]string
	StartRow      int
	AddressColumn string
}

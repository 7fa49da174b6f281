package stackdump

// DefaultElement is the record element name used by the public dumps
const DefaultElement = "row"

// Attr is one attribute of a row, entity references already resolved
type Attr struct {
	Name  string
	Value string
}

// Row is one record element and where it started in the decompressed input
type Row struct {
	Attrs  []Attr
	Line   int
	Offset int64
}

// Get returns the value of the named attribute
func (r Row) Get(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

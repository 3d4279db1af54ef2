// Package locations supplies the valid set of location identifiers. The
// inventory core consults the directory but does not own location
// lifecycle.
package locations

type Directory interface {
	Valid(code string) bool
	All() []string
}

// StaticDirectory serves a fixed list of location codes, typically fed
// from configuration.
type StaticDirectory struct {
	codes []string
}

func NewStaticDirectory(codes []string) *StaticDirectory {
	return &StaticDirectory{codes: codes}
}

func (d *StaticDirectory) Valid(code string) bool {
	for _, c := range d.codes {
		if c == code {
			return true
		}
	}
	return false
}

func (d *StaticDirectory) All() []string {
	out := make([]string, len(d.codes))
	copy(out, d.codes)
	return out
}

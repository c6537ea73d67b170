package expr

import (
	"fmt"
	"strings"
)

// DomainSwitch evaluates a different branch on each sub-domain. Branch i serves the
// samples whose domain tag is i.
type DomainSwitch struct {
	branches []Node
	shape    Shape
}

// DomainSelect returns a node that dispatches on the domain tag. The number of branches
// must equal domains, and every branch must have the same vector width.
func DomainSelect(domains int, branches ...any) (Node, error) {
	if domains <= 0 || len(branches) != domains {
		return nil, fmt.Errorf("%w: %d branches for %d domains", ErrDomainCount, len(branches), domains)
	}
	d := &DomainSwitch{branches: make([]Node, len(branches))}
	for i, b := range branches {
		n, err := Lift(b)
		if err != nil {
			return nil, err
		}
		if i > 0 && n.Shape().Dim != d.shape.Dim {
			return nil, fmt.Errorf("%w: branch %d is %s, branch 0 is %s", ErrShape, i, n.Shape(), d.branches[0].Shape())
		}
		d.branches[i] = n
		d.shape.Dim = n.Shape().Dim
		d.shape.Complex = d.shape.Complex || n.Shape().Complex
	}
	return d, nil
}

func (d *DomainSwitch) Kind() Kind       { return KindDomainSelect }
func (d *DomainSwitch) Shape() Shape     { return d.shape }
func (d *DomainSwitch) Children() []Node { return d.branches }
func (d *DomainSwitch) Domains() int     { return len(d.branches) }

func (d *DomainSwitch) String() string {
	parts := make([]string, len(d.branches))
	for i, b := range d.branches {
		parts[i] = b.String()
	}
	return "domainwise(" + strings.Join(parts, ", ") + ")"
}

package manager

import (
	"fmt"
	"strings"

	"github.com/dshills/limngo/pkg/solver"
	"github.com/dshills/limngo/pkg/vars"
)

// FmtVariable renders v as "<node_name>.<kind>", falling back to
// "unknown.?" when v is not (or no longer) owned by any registered node.
func (m *Manager) FmtVariable(v solver.Variable) string {
	id, ok := m.varIDs[v]
	if !ok {
		return "unknown.?"
	}
	rec := m.nodes[id]
	name := rec.name
	if name == "" {
		name = "unknown"
	}
	kind := rec.vars.VarType(v)
	kindStr := kind.String()
	if kind == vars.Other {
		if assoc, ok := rec.vars.AssociatedName(v); ok {
			kindStr = assoc
		}
	}
	return name + "." + kindStr
}

// FmtConstraint renders c as "<STRENGTH> <pos_terms> <op> <neg_terms>",
// splitting c's expression by coefficient sign and routing negative terms
// to the right of the operator.
func (m *Manager) FmtConstraint(c *solver.Constraint) string {
	var posTerms, negTerms []string
	for _, term := range c.Expression.Terms {
		if term.Coefficient == 0 {
			continue
		}
		name := m.FmtVariable(term.Var)
		if term.Coefficient > 0 {
			posTerms = append(posTerms, formatTerm(term.Coefficient, name))
		} else {
			negTerms = append(negTerms, formatTerm(-term.Coefficient, name))
		}
	}

	constant := c.Expression.Constant
	if constant > 0 {
		posTerms = append(posTerms, formatConstant(constant))
	} else if constant < 0 {
		negTerms = append(negTerms, formatConstant(-constant))
	}

	return fmt.Sprintf("%s %s %s %s",
		solver.FormatStrength(c.Strength), side(posTerms), c.Op.String(), side(negTerms))
}

func formatTerm(coeff float64, name string) string {
	if coeff == 1 {
		return name
	}
	return fmt.Sprintf("%g%s", coeff, name)
}

func formatConstant(c float64) string {
	return fmt.Sprintf("%g", c)
}

func side(tokens []string) string {
	if len(tokens) == 0 {
		return "0"
	}
	return strings.Join(tokens, " + ")
}

package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/volfix/mip"
)

// pboTerm is one weighted literal of a pseudo-Boolean expression, after
// `~x` expansion: the negation has already been folded into the weight and
// the side offset.
type pboTerm struct {
	col    int
	weight float64
}

// pboConstraint is one parsed constraint line.
type pboConstraint struct {
	terms    []pboTerm
	equation bool
	// side is the stated degree corrected by the `~x` offsets.
	side float64
}

// PBO reads a pseudo-Boolean optimisation instance from path.
func PBO(path string) (*mip.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse: open %s: %w", path, err)
	}
	defer f.Close()

	return PBOFrom(f, path)
}

// PBOFrom reads a PBO instance from r.  All variables are binary; `~x`
// literals are expanded at parse time (the −a coefficient is accumulated
// into the side offset).  Comment lines start with `*`.
func PBOFrom(r io.Reader, name string) (*mip.Problem, error) {
	p := &pboParser{colIndex: map[string]int{}, name: name}
	if err := p.run(r); err != nil {
		return nil, err
	}

	return p.build()
}

type pboParser struct {
	name     string
	colIndex map[string]int
	colNames []string

	objTerms  []pboTerm
	objOffset float64
	haveObj   bool

	constraints []pboConstraint
	lineNo      int
}

func (p *pboParser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.lineNo, fmt.Sprintf(format, args...))
}

func (p *pboParser) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '*' {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			return p.errf("missing terminating ';'")
		}
		line = strings.TrimSuffix(line, ";")

		if !p.haveObj {
			if !strings.HasPrefix(line, "min:") {
				return p.errf("first statement must be the 'min:' objective")
			}
			terms, offset, err := p.parseTerms(strings.Fields(strings.TrimPrefix(line, "min:")))
			if err != nil {
				return err
			}
			p.objTerms = terms
			p.objOffset = offset
			p.haveObj = true
			continue
		}

		if err := p.parseConstraint(strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("parse: read %s: %w", p.name, err)
	}
	if !p.haveObj {
		return fmt.Errorf("%w: no 'min:' objective", ErrSyntax)
	}

	return nil
}

// parseTerms reads alternating weight / literal tokens.  The returned
// offset is the constant accumulated by expanding `~x` literals.
func (p *pboParser) parseTerms(tokens []string) ([]pboTerm, float64, error) {
	if len(tokens)%2 != 0 {
		return nil, 0, p.errf("expression needs (weight, literal) pairs")
	}

	var terms []pboTerm
	offset := 0.0
	for k := 0; k < len(tokens); k += 2 {
		weight, err := strconv.ParseFloat(tokens[k], 64)
		if err != nil {
			return nil, 0, p.errf("bad weight %q", tokens[k])
		}
		literal := tokens[k+1]
		if strings.HasPrefix(literal, "~") {
			// a·~x = a − a·x
			offset += weight
			weight = -weight
			literal = literal[1:]
		}
		if literal == "" {
			return nil, 0, p.errf("empty literal")
		}
		terms = append(terms, pboTerm{col: p.column(literal), weight: weight})
	}

	return terms, offset, nil
}

func (p *pboParser) parseConstraint(tokens []string) error {
	opIdx := -1
	equation := false
	for i, tok := range tokens {
		if tok == ">=" || tok == "=" {
			opIdx = i
			equation = tok == "="
			break
		}
	}
	if opIdx < 0 || opIdx != len(tokens)-2 {
		return p.errf("constraint needs '>=' or '=' followed by a degree")
	}

	terms, offset, err := p.parseTerms(tokens[:opIdx])
	if err != nil {
		return err
	}
	degree, err := strconv.ParseFloat(tokens[len(tokens)-1], 64)
	if err != nil {
		return p.errf("bad degree %q", tokens[len(tokens)-1])
	}

	p.constraints = append(p.constraints, pboConstraint{
		terms:    terms,
		equation: equation,
		side:     degree - offset,
	})

	return nil
}

// column interns a variable name, creating the binary column on first
// sight.
func (p *pboParser) column(name string) int {
	if i, ok := p.colIndex[name]; ok {
		return i
	}
	i := len(p.colNames)
	p.colIndex[name] = i
	p.colNames = append(p.colNames, name)

	return i
}

func (p *pboParser) build() (*mip.Problem, error) {
	nnz := 0
	for _, c := range p.constraints {
		nnz += len(c.terms)
	}

	b := mip.NewProblemBuilder()
	b.Reserve(nnz, len(p.constraints), len(p.colNames))
	b.SetProblemName(p.name)
	b.SetObjOffset(p.objOffset)

	for j, name := range p.colNames {
		b.SetColName(j, name)
		b.SetColLb(j, 0)
		b.SetColUb(j, 1)
		b.SetColIntegral(j, true)
	}
	objCoef := make([]float64, len(p.colNames))
	for _, t := range p.objTerms {
		objCoef[t.col] += t.weight
	}
	b.SetObjAll(objCoef)

	for r, c := range p.constraints {
		for _, t := range c.terms {
			b.AddEntry(r, t.col, t.weight)
		}
		b.SetRowLhs(r, c.side)
		if c.equation {
			b.SetRowRhs(r, c.side)
		}
	}

	prob, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("parse: %s: %w", p.name, err)
	}

	return prob, nil
}

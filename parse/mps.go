package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/volfix/mip"
)

// ErrSyntax indicates malformed instance input.
var ErrSyntax = errors.New("parse: malformed input")

// rowKind is the MPS row type letter.
type rowKind byte

const (
	rowObjective rowKind = 'N'
	rowLeq       rowKind = 'L'
	rowGeq       rowKind = 'G'
	rowEq        rowKind = 'E'
)

// mpsRow accumulates one constraint row while reading.
type mpsRow struct {
	kind   rowKind
	name   string
	lhs    float64
	rhs    float64
	hasLhs bool
	hasRhs bool
}

// mpsCol accumulates one column while reading.
type mpsCol struct {
	name     string
	obj      float64
	lower    float64
	upper    float64
	lbInf    bool
	ubInf    bool
	integral bool
	entries  []mpsEntry
}

type mpsEntry struct {
	row int
	val float64
}

// MPS reads an MPS instance from path.
func MPS(path string) (*mip.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse: open %s: %w", path, err)
	}
	defer f.Close()

	return MPSFrom(f, path)
}

// MPSFrom reads an MPS instance from r; name is used for diagnostics and
// as the fallback problem name.
func MPSFrom(r io.Reader, name string) (*mip.Problem, error) {
	p := &mpsParser{
		rowIndex: map[string]int{},
		colIndex: map[string]int{},
		name:     name,
	}
	if err := p.run(r); err != nil {
		return nil, err
	}

	return p.build()
}

type mpsParser struct {
	name    string
	objName string
	offset  float64

	rows     []mpsRow
	rowIndex map[string]int
	cols     []*mpsCol
	colIndex map[string]int

	section   string
	inInteger bool
	lineNo    int
}

func (p *mpsParser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.lineNo, fmt.Sprintf(format, args...))
}

func (p *mpsParser) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		p.lineNo++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '*' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		// section headers start in column one
		if line[0] != ' ' && line[0] != '\t' {
			p.section = strings.ToUpper(fields[0])
			if p.section == "NAME" && len(fields) > 1 {
				p.name = fields[1]
			}
			if p.section == "ENDATA" {
				return nil
			}
			continue
		}

		var err error
		switch p.section {
		case "ROWS":
			err = p.parseRow(fields)
		case "COLUMNS":
			err = p.parseColumn(fields)
		case "RHS":
			err = p.parseRHS(fields)
		case "RANGES":
			err = p.parseRanges(fields)
		case "BOUNDS":
			err = p.parseBounds(fields)
		case "OBJSENSE", "":
			// minimization is the only supported sense
		default:
			err = p.errf("unknown section %q", p.section)
		}
		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("parse: read %s: %w", p.name, err)
	}

	return nil
}

func (p *mpsParser) parseRow(fields []string) error {
	if len(fields) < 2 {
		return p.errf("ROWS entry needs a type and a name")
	}
	kind := rowKind(strings.ToUpper(fields[0])[0])
	name := fields[1]

	if kind == rowObjective {
		if p.objName == "" {
			p.objName = name
		}
		return nil
	}
	if kind != rowLeq && kind != rowGeq && kind != rowEq {
		return p.errf("unknown row type %q", fields[0])
	}
	p.rowIndex[name] = len(p.rows)
	p.rows = append(p.rows, mpsRow{kind: kind, name: name})

	return nil
}

func (p *mpsParser) parseColumn(fields []string) error {
	// integer markers toggle the integrality of subsequent columns
	if len(fields) >= 3 && strings.Contains(fields[1], "MARKER") {
		switch {
		case strings.Contains(fields[2], "INTORG"):
			p.inInteger = true
		case strings.Contains(fields[2], "INTEND"):
			p.inInteger = false
		default:
			return p.errf("unknown marker %q", fields[2])
		}
		return nil
	}
	if len(fields) < 3 || len(fields)%2 == 0 {
		return p.errf("COLUMNS entry needs (row, value) pairs")
	}

	col := p.column(fields[0])
	for k := 1; k < len(fields); k += 2 {
		val, err := strconv.ParseFloat(fields[k+1], 64)
		if err != nil {
			return p.errf("bad coefficient %q", fields[k+1])
		}
		if fields[k] == p.objName {
			col.obj += val
			continue
		}
		r, ok := p.rowIndex[fields[k]]
		if !ok {
			return p.errf("unknown row %q", fields[k])
		}
		col.entries = append(col.entries, mpsEntry{row: r, val: val})
	}

	return nil
}

func (p *mpsParser) parseRHS(fields []string) error {
	if len(fields) < 3 || len(fields)%2 == 0 {
		return p.errf("RHS entry needs (row, value) pairs")
	}
	for k := 1; k < len(fields); k += 2 {
		val, err := strconv.ParseFloat(fields[k+1], 64)
		if err != nil {
			return p.errf("bad right-hand side %q", fields[k+1])
		}
		if fields[k] == p.objName {
			// an RHS on the objective row is the negated constant term
			p.offset = -val
			continue
		}
		r, ok := p.rowIndex[fields[k]]
		if !ok {
			return p.errf("unknown row %q", fields[k])
		}
		switch p.rows[r].kind {
		case rowLeq:
			p.rows[r].rhs, p.rows[r].hasRhs = val, true
		case rowGeq:
			p.rows[r].lhs, p.rows[r].hasLhs = val, true
		case rowEq:
			p.rows[r].lhs, p.rows[r].hasLhs = val, true
			p.rows[r].rhs, p.rows[r].hasRhs = val, true
		}
	}

	return nil
}

func (p *mpsParser) parseRanges(fields []string) error {
	if len(fields) < 3 || len(fields)%2 == 0 {
		return p.errf("RANGES entry needs (row, value) pairs")
	}
	for k := 1; k < len(fields); k += 2 {
		val, err := strconv.ParseFloat(fields[k+1], 64)
		if err != nil {
			return p.errf("bad range %q", fields[k+1])
		}
		r, ok := p.rowIndex[fields[k]]
		if !ok {
			return p.errf("unknown row %q", fields[k])
		}
		row := &p.rows[r]
		switch row.kind {
		case rowLeq:
			row.lhs, row.hasLhs = row.rhs-math.Abs(val), true
		case rowGeq:
			row.rhs, row.hasRhs = row.lhs+math.Abs(val), true
		case rowEq:
			if val >= 0 {
				row.rhs = row.lhs + val
			} else {
				row.lhs = row.rhs + val
			}
		}
	}

	return nil
}

func (p *mpsParser) parseBounds(fields []string) error {
	if len(fields) < 3 {
		return p.errf("BOUNDS entry needs a type, a set name and a column")
	}
	kind := strings.ToUpper(fields[0])
	col := p.column(fields[2])

	needsValue := kind == "UP" || kind == "LO" || kind == "FX" || kind == "UI" || kind == "LI"
	var val float64
	if needsValue {
		if len(fields) < 4 {
			return p.errf("bound %s needs a value", kind)
		}
		var err error
		if val, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return p.errf("bad bound value %q", fields[3])
		}
	}

	switch kind {
	case "UP", "UI":
		col.upper, col.ubInf = val, false
		if kind == "UI" {
			col.integral = true
		}
	case "LO", "LI":
		col.lower, col.lbInf = val, false
		if kind == "LI" {
			col.integral = true
		}
	case "FX":
		col.lower, col.lbInf = val, false
		col.upper, col.ubInf = val, false
	case "BV":
		col.lower, col.lbInf = 0, false
		col.upper, col.ubInf = 1, false
		col.integral = true
	case "MI":
		col.lbInf = true
	case "PL":
		col.ubInf = true
	case "FR":
		col.lbInf = true
		col.ubInf = true
	default:
		return p.errf("unknown bound type %q", kind)
	}

	return nil
}

// column returns the accumulator for name, creating it on first sight with
// the default [0, +inf) domain.
func (p *mpsParser) column(name string) *mpsCol {
	if i, ok := p.colIndex[name]; ok {
		return p.cols[i]
	}
	col := &mpsCol{name: name, ubInf: true, integral: p.inInteger}
	p.colIndex[name] = len(p.cols)
	p.cols = append(p.cols, col)

	return col
}

func (p *mpsParser) build() (*mip.Problem, error) {
	if p.objName == "" {
		return nil, fmt.Errorf("%w: no objective row", ErrSyntax)
	}

	nnz := 0
	for _, c := range p.cols {
		nnz += len(c.entries)
	}

	b := mip.NewProblemBuilder()
	b.Reserve(nnz, len(p.rows), len(p.cols))
	b.SetProblemName(p.name)
	b.SetObjOffset(p.offset)

	for r, row := range p.rows {
		b.SetRowName(r, row.name)
		// a row without an RHS entry sits at zero
		switch row.kind {
		case rowLeq:
			b.SetRowRhs(r, row.rhs)
			if row.hasLhs {
				b.SetRowLhs(r, row.lhs)
			}
		case rowGeq:
			b.SetRowLhs(r, row.lhs)
			if row.hasRhs {
				b.SetRowRhs(r, row.rhs)
			}
		case rowEq:
			b.SetRowLhs(r, row.lhs)
			b.SetRowRhs(r, row.rhs)
		}
	}

	for j, c := range p.cols {
		b.SetColName(j, c.name)
		b.SetObj(j, c.obj)
		if c.lbInf {
			b.SetColLbInf(j, true)
		} else {
			b.SetColLb(j, c.lower)
		}
		if c.ubInf {
			b.SetColUbInf(j, true)
		} else {
			b.SetColUb(j, c.upper)
		}
		b.SetColIntegral(j, c.integral)
		for _, e := range c.entries {
			b.AddEntry(e.row, j, e.val)
		}
	}

	prob, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("parse: %s: %w", p.name, err)
	}

	return prob, nil
}

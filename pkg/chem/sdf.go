package chem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadRecord marks a molecule record that could not be parsed.
// The reader skips to the next record delimiter, so callers can log
// a warning and keep going.
var ErrBadRecord = errors.New("malformed molecule record")

const recordDelimiter = "$$$$"

// Reader streams molecule records from an SDF stream (V2000).
type Reader struct {
	scanner *bufio.Scanner
	index   int
	done    bool
}

// NewReader returns a streaming SDF reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scanner: sc}
}

// Index returns the 1-based index of the last record returned by Next.
func (r *Reader) Index() int {
	return r.index
}

// Next returns the next molecule in the stream. It returns io.EOF when
// the stream is exhausted. A parse failure returns an error wrapping
// ErrBadRecord; the reader remains usable for subsequent records.
func (r *Reader) Next() (*Mol, error) {
	if r.done {
		return nil, io.EOF
	}

	var lines []string
	sawAny := false
	for r.scanner.Scan() {
		line := r.scanner.Text()
		sawAny = true
		if strings.TrimSpace(line) == recordDelimiter {
			r.index++
			return parseRecord(lines)
		}
		lines = append(lines, line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read SDF stream")
	}

	r.done = true
	// trailing record without a closing $$$$
	if sawAny && len(lines) > 3 && hasContent(lines) {
		r.index++
		return parseRecord(lines)
	}
	return nil, io.EOF
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func parseRecord(lines []string) (*Mol, error) {
	if len(lines) < 4 {
		return nil, errors.Wrap(ErrBadRecord, "record too short")
	}

	mol := &Mol{Name: strings.TrimSpace(lines[0])}

	counts := lines[3]
	if len(counts) < 6 {
		return nil, errors.Wrap(ErrBadRecord, "counts line too short")
	}
	numAtoms, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, errors.Wrap(ErrBadRecord, "invalid atom count")
	}
	numBonds, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil {
		return nil, errors.Wrap(ErrBadRecord, "invalid bond count")
	}
	if len(lines) < 4+numAtoms+numBonds {
		return nil, errors.Wrapf(ErrBadRecord, "truncated record: %d atoms, %d bonds declared", numAtoms, numBonds)
	}

	mol.Atoms = make([]Atom, numAtoms)
	for i := 0; i < numAtoms; i++ {
		a, err := parseAtomLine(lines[4+i])
		if err != nil {
			return nil, errors.Wrapf(err, "atom %d", i+1)
		}
		mol.Atoms[i] = a
	}

	mol.Bonds = make([]Bond, numBonds)
	for i := 0; i < numBonds; i++ {
		b, err := parseBondLine(lines[4+numAtoms+i], numAtoms)
		if err != nil {
			return nil, errors.Wrapf(err, "bond %d", i+1)
		}
		mol.Bonds[i] = b
	}

	rest := lines[4+numAtoms+numBonds:]
	rest = parseProperties(mol, rest)
	if err := parseDataFields(mol, rest); err != nil {
		return nil, err
	}

	FillImplicitHydrogens(mol)
	PerceiveAromaticity(mol)
	return mol, nil
}

// parseAtomLine reads the fixed columns of a V2000 atom line:
// xxxxxxxxxxyyyyyyyyyyzzzzzzzzzz sss ... ccc
func parseAtomLine(line string) (Atom, error) {
	if len(line) < 34 {
		return Atom{}, errors.Wrap(ErrBadRecord, "atom line too short")
	}
	var a Atom
	var err error
	if a.X, err = strconv.ParseFloat(strings.TrimSpace(line[0:10]), 64); err != nil {
		return Atom{}, errors.Wrap(ErrBadRecord, "invalid x coordinate")
	}
	if a.Y, err = strconv.ParseFloat(strings.TrimSpace(line[10:20]), 64); err != nil {
		return Atom{}, errors.Wrap(ErrBadRecord, "invalid y coordinate")
	}
	if a.Z, err = strconv.ParseFloat(strings.TrimSpace(line[20:30]), 64); err != nil {
		return Atom{}, errors.Wrap(ErrBadRecord, "invalid z coordinate")
	}
	a.Symbol = strings.TrimSpace(line[31:34])
	if a.Symbol == "" {
		return Atom{}, errors.Wrap(ErrBadRecord, "missing element symbol")
	}
	if len(line) >= 39 {
		if code, err := strconv.Atoi(strings.TrimSpace(line[36:39])); err == nil {
			a.Charge = chargeFromCode(code)
		}
	}
	return a, nil
}

// legacy charge column codes, superseded by M  CHG when present
func chargeFromCode(code int) int {
	switch code {
	case 1:
		return 3
	case 2:
		return 2
	case 3:
		return 1
	case 5:
		return -1
	case 6:
		return -2
	case 7:
		return -3
	}
	return 0
}

func parseBondLine(line string, numAtoms int) (Bond, error) {
	if len(line) < 9 {
		return Bond{}, errors.Wrap(ErrBadRecord, "bond line too short")
	}
	from, err := strconv.Atoi(strings.TrimSpace(line[0:3]))
	if err != nil {
		return Bond{}, errors.Wrap(ErrBadRecord, "invalid bond atom")
	}
	to, err := strconv.Atoi(strings.TrimSpace(line[3:6]))
	if err != nil {
		return Bond{}, errors.Wrap(ErrBadRecord, "invalid bond atom")
	}
	order, err := strconv.Atoi(strings.TrimSpace(line[6:9]))
	if err != nil {
		return Bond{}, errors.Wrap(ErrBadRecord, "invalid bond order")
	}
	if from < 1 || from > numAtoms || to < 1 || to > numAtoms {
		return Bond{}, errors.Wrapf(ErrBadRecord, "bond atom out of range: %d-%d", from, to)
	}
	return Bond{From: from - 1, To: to - 1, Order: order, Aromatic: order == 4}, nil
}

// parseProperties consumes M-block lines (through M  END) and
// returns the remaining data-field lines.
func parseProperties(mol *Mol, lines []string) []string {
	sawChg := false
	for i, line := range lines {
		if strings.HasPrefix(line, "M  CHG") {
			if !sawChg {
				// explicit CHG lines reset the legacy charge columns
				for j := range mol.Atoms {
					mol.Atoms[j].Charge = 0
				}
				sawChg = true
			}
			applyChargeLine(mol, line)
			continue
		}
		if strings.HasPrefix(line, "M  END") {
			return lines[i+1:]
		}
		if strings.HasPrefix(line, ">") {
			return lines[i:]
		}
	}
	return nil
}

// M  CHG  n aaa vvv aaa vvv ...
func applyChargeLine(mol *Mol, line string) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || len(fields) < 3+2*n {
		return
	}
	for i := 0; i < n; i++ {
		idx, err1 := strconv.Atoi(fields[3+2*i])
		chg, err2 := strconv.Atoi(fields[4+2*i])
		if err1 != nil || err2 != nil || idx < 1 || idx > len(mol.Atoms) {
			continue
		}
		mol.Atoms[idx-1].Charge = chg
	}
}

func parseDataFields(mol *Mol, lines []string) error {
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, ">") {
			i++
			continue
		}
		key := dataFieldName(line)
		if key == "" {
			return errors.Wrapf(ErrBadRecord, "invalid data header: %s", line)
		}
		i++
		var vals []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			vals = append(vals, lines[i])
			i++
		}
		mol.SetData(key, strings.Join(vals, "\n"))
	}
	return nil
}

// dataFieldName extracts KEY from a '>  <KEY>' header line.
func dataFieldName(line string) string {
	start := strings.Index(line, "<")
	end := strings.LastIndex(line, ">")
	if start < 0 || end <= start {
		return ""
	}
	return line[start+1 : end]
}

// Writer writes molecule records in SDF V2000 format.
type Writer struct {
	w     io.Writer
	count int
}

// NewWriter returns an SDF writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Write appends one molecule record, including its SD data fields.
func (w *Writer) Write(mol *Mol) error {
	var sb strings.Builder

	sb.WriteString(mol.Name)
	sb.WriteString("\n  sucos\n\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(mol.Atoms), len(mol.Bonds))

	for _, a := range mol.Atoms {
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			a.X, a.Y, a.Z, a.Symbol)
	}
	for _, b := range mol.Bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b.From+1, b.To+1, b.Order)
	}

	var charged []int
	for i, a := range mol.Atoms {
		if a.Charge != 0 {
			charged = append(charged, i)
		}
	}
	for len(charged) > 0 {
		// at most 8 atom/charge pairs per CHG line
		n := len(charged)
		if n > 8 {
			n = 8
		}
		fmt.Fprintf(&sb, "M  CHG%3d", n)
		for _, i := range charged[:n] {
			fmt.Fprintf(&sb, " %3d %3d", i+1, mol.Atoms[i].Charge)
		}
		sb.WriteString("\n")
		charged = charged[n:]
	}
	sb.WriteString("M  END\n")

	for _, key := range mol.DataKeys() {
		val, _ := mol.Data(key)
		fmt.Fprintf(&sb, ">  <%s>\n%s\n\n", key, val)
	}
	sb.WriteString(recordDelimiter)
	sb.WriteString("\n")

	if _, err := io.WriteString(w.w, sb.String()); err != nil {
		return errors.Wrapf(err, "failed to write molecule: %s", mol.Name)
	}
	w.count++
	return nil
}

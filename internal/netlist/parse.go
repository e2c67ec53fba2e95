package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

const endToken = "END"

// Parse reads a netlist in the canneal text format:
//
//	<numElements> <maxX> <maxY>
//	<name> <type> <fanin> <fanin> ... END
//
// Each fanin name is connected as a driver of the element on that line.
// Names may be referenced before their own record appears.
func Parse(r io.Reader) (*Netlist, error) {
	const op = "parse_netlist"

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		n        *Netlist
		want     int
		records  int
		lineNo   int
		declared = make(map[string]bool)
	)

	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if n == nil {
			h, err := parseHeader(fields)
			if err != nil {
				return nil, errors.WrapValidationError(err, op, "invalid header").WithContext("line", lineNo)
			}
			want = h[0]
			n = New(int32(h[1]), int32(h[2]))
			continue
		}

		if len(fields) < 3 || fields[len(fields)-1] != endToken {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "line %d: record must be <name> <type> [fanin...] END", lineNo).
				WithContext("line", lineNo)
		}
		name := fields[0]
		if declared[name] {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "line %d: duplicate element %q", lineNo, name).
				WithContext("line", lineNo)
		}
		typ, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.WrapValidationError(err, op, fmt.Sprintf("line %d: invalid element type", lineNo)).
				WithContext("line", lineNo)
		}

		declared[name] = true
		records++
		elem := n.CreateElement(name)
		elem.Type = typ
		for _, faninName := range fields[2 : len(fields)-1] {
			n.Connect(n.CreateElement(faninName), elem)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapStorageError(err, op, "read failed")
	}

	if n == nil {
		return nil, errors.NewValidationError(op, "empty input")
	}
	if records != want {
		return nil, errors.Newf(errors.ErrorTypeValidation, op, "header declares %d elements, found %d records", want, records)
	}
	if n.Len() != want {
		for _, e := range n.elements {
			if !declared[e.Name] {
				return nil, errors.Newf(errors.ErrorTypeValidation, op, "element %q referenced but never declared", e.Name)
			}
		}
	}
	return n, nil
}

func parseHeader(fields []string) ([3]int, error) {
	var h [3]int
	if len(fields) != 3 {
		return h, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return h, err
		}
		h[i] = v
	}
	if h[0] < 0 {
		return h, fmt.Errorf("negative element count %d", h[0])
	}
	if h[1] <= 0 || h[2] <= 0 {
		return h, fmt.Errorf("invalid grid %dx%d", h[1], h[2])
	}
	if h[1] > 1<<20 || h[2] > 1<<20 {
		return h, fmt.Errorf("grid %dx%d exceeds supported size", h[1], h[2])
	}
	if h[0] > h[1]*h[2] {
		return h, fmt.Errorf("%d elements do not fit on a %dx%d grid", h[0], h[1], h[2])
	}
	return h, nil
}

// Write serializes n in the format accepted by Parse.
func Write(w io.Writer, n *Netlist) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", n.Len(), n.maxX, n.maxY)
	for _, e := range n.elements {
		bw.WriteString(e.Name)
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(e.Type))
		for _, in := range e.Fanin {
			bw.WriteByte(' ')
			bw.WriteString(in.Name)
		}
		bw.WriteString(" " + endToken + "\n")
	}
	if err := bw.Flush(); err != nil {
		return errors.WrapStorageError(err, "write_netlist", "flush failed")
	}
	return nil
}

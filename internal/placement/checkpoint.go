// Package placement saves and restores element locations as Parquet files.
package placement

import (
	"bytes"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/metrics"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

// Row is one element location in a checkpoint.
type Row struct {
	Name string `parquet:"name"`
	X    int32  `parquet:"x"`
	Y    int32  `parquet:"y"`
}

// Rows snapshots every element location in creation order.
func Rows(n *netlist.Netlist) ([]Row, error) {
	rows := make([]Row, 0, n.Len())
	for _, e := range n.Elements() {
		loc, err := e.Location()
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Name: e.Name, X: loc.X, Y: loc.Y})
	}
	return rows, nil
}

// Write encodes the current placement of n to w.
func Write(w io.Writer, n *netlist.Netlist) error {
	const op = "write_checkpoint"

	rows, err := Rows(n)
	if err != nil {
		metrics.CheckpointOperationsTotal.WithLabelValues("write", "error").Inc()
		return errors.WrapValidationError(err, op, "placement incomplete")
	}

	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(rows); err != nil {
		metrics.CheckpointOperationsTotal.WithLabelValues("write", "error").Inc()
		return errors.WrapStorageError(err, op, "write rows")
	}
	if err := pw.Close(); err != nil {
		metrics.CheckpointOperationsTotal.WithLabelValues("write", "error").Inc()
		return errors.WrapStorageError(err, op, "close writer")
	}
	metrics.CheckpointOperationsTotal.WithLabelValues("write", "ok").Inc()
	return nil
}

// Read decodes a checkpoint and publishes each row onto the element of the
// same name. Nothing is published unless every row names a distinct known
// element at an in-grid slot, and the resulting placement, together with the
// current locations of elements the checkpoint omits, puts no two elements on
// the same slot. It returns the number of rows applied.
func Read(r io.ReaderAt, size int64, n *netlist.Netlist) (int, error) {
	rows, err := parquet.Read[Row](r, size)
	if err != nil {
		metrics.CheckpointOperationsTotal.WithLabelValues("read", "error").Inc()
		return 0, errors.WrapStorageError(err, "read_checkpoint", "decode rows")
	}

	targets, err := validateRows(rows, n)
	if err != nil {
		metrics.CheckpointOperationsTotal.WithLabelValues("read", "error").Inc()
		return 0, err
	}

	for i, e := range targets {
		e.Publish(core.Loc(rows[i].X, rows[i].Y))
	}
	metrics.CheckpointOperationsTotal.WithLabelValues("read", "ok").Inc()
	return len(rows), nil
}

func validateRows(rows []Row, n *netlist.Netlist) ([]*netlist.Element, error) {
	const op = "read_checkpoint"

	targets := make([]*netlist.Element, len(rows))
	covered := make(map[*netlist.Element]bool, len(rows))
	slots := make(map[core.Location]string, n.Len())
	for i, row := range rows {
		e, ok := n.Element(row.Name)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "unknown element %q", row.Name).
				WithContext("row", i)
		}
		if covered[e] {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "element %q appears twice", row.Name).
				WithContext("row", i)
		}
		if row.X < 0 || row.X >= n.MaxX() || row.Y < 0 || row.Y >= n.MaxY() {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "location (%d,%d) outside %dx%d grid",
				row.X, row.Y, n.MaxX(), n.MaxY()).WithContext("row", i)
		}
		loc := core.Loc(row.X, row.Y)
		if other, dup := slots[loc]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "elements %q and %q share slot (%d,%d)",
				other, row.Name, row.X, row.Y).WithContext("row", i)
		}
		slots[loc] = row.Name
		covered[e] = true
		targets[i] = e
	}

	for _, e := range n.Elements() {
		if covered[e] {
			continue
		}
		loc, err := e.Location()
		if err != nil {
			continue
		}
		if other, dup := slots[loc]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, op, "element %q restored onto slot (%d,%d) held by %q",
				other, loc.X, loc.Y, e.Name)
		}
	}
	return targets, nil
}

// SaveFile writes a checkpoint to path.
func SaveFile(path string, n *netlist.Netlist) error {
	var buf bytes.Buffer
	if err := Write(&buf, n); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapStorageError(err, "save_checkpoint", "write file").WithContext("path", path)
	}
	return nil
}

// LoadFile applies the checkpoint at path to n.
func LoadFile(path string, n *netlist.Netlist) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.WrapStorageError(err, "load_checkpoint", "open file").WithContext("path", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, errors.WrapStorageError(err, "load_checkpoint", "stat file").WithContext("path", path)
	}
	return Read(f, st.Size(), n)
}

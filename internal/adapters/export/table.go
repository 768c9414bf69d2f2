package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/geometry"
)

// PrecisionExact formats a number with the shortest text that parses back
// to the same float.
const PrecisionExact int32 = -1

// Column describes one table column. Precision applies to numeric cells.
type Column struct {
	Name      string
	Precision int32
	Numeric   bool
}

// Table is an ordered, text-only projection of frames for report and
// export consumers.
type Table struct {
	Columns []Column
	Rows    [][]string
}

var sampleColumns = []Column{
	{Name: "seq"},
	{Name: "timestamp"},
	{Name: "chainage_m", Numeric: true, Precision: PrecisionExact},
	{Name: "gauge_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "left_rail_level_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "right_rail_level_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "left_rail_alignment_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "right_rail_alignment_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "cross_level_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "twist_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "unevenness_mm", Numeric: true, Precision: geometry.PrecisionLength},
	{Name: "vertical_acceleration_ms2", Numeric: true, Precision: geometry.PrecisionAcceleration},
	{Name: "lateral_acceleration_ms2", Numeric: true, Precision: geometry.PrecisionAcceleration},
	{Name: "speed_kmh", Numeric: true, Precision: geometry.PrecisionSpeed},
	{Name: "worst_status"},
}

var verdictColumns = []Column{
	{Name: "seq"},
	{Name: "chainage_m", Numeric: true, Precision: PrecisionExact},
	{Name: "standard"},
	{Name: "parameter"},
	{Name: "value", Numeric: true, Precision: PrecisionExact},
	{Name: "limit", Numeric: true, Precision: PrecisionExact},
	{Name: "status"},
}

// SampleColumns returns the column layout of SampleTable.
func SampleColumns() []Column {
	return append([]Column(nil), sampleColumns...)
}

// SampleTable projects one row per frame.
func SampleTable(frames []domain.Frame) Table {
	t := Table{Columns: SampleColumns(), Rows: make([][]string, 0, len(frames))}
	for _, f := range frames {
		t.Rows = append(t.Rows, sampleRow(f))
	}
	return t
}

// VerdictTable projects one row per verdict, keeping verdict order.
func VerdictTable(frames []domain.Frame) Table {
	t := Table{Columns: append([]Column(nil), verdictColumns...)}
	for _, f := range frames {
		for _, v := range f.Verdicts {
			t.Rows = append(t.Rows, []string{
				strconv.FormatUint(f.Seq, 10),
				FormatFloat(f.Sample.Chainage, PrecisionExact),
				v.Standard.String(),
				v.Parameter.String(),
				FormatFloat(v.Value, PrecisionExact),
				FormatFloat(v.Limit, PrecisionExact),
				v.Status.String(),
			})
		}
	}
	return t
}

func sampleRow(f domain.Frame) []string {
	s := f.Sample
	values := []float64{
		s.Chainage,
		s.Gauge,
		s.LeftRailLevel,
		s.RightRailLevel,
		s.LeftRailAlignment,
		s.RightRailAlignment,
		s.CrossLevel,
		s.Twist,
		s.Unevenness,
		s.VerticalAcceleration,
		s.LateralAcceleration,
		s.Speed,
	}
	row := make([]string, 0, len(sampleColumns))
	row = append(row, strconv.FormatUint(f.Seq, 10), s.Timestamp.UTC().Format(time.RFC3339Nano))
	for i, v := range values {
		row = append(row, FormatFloat(v, sampleColumns[i+2].Precision))
	}
	return append(row, f.Worst().String())
}

// Header returns the column names in order.
func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// WriteCSV writes the header followed by every row.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// FormatFloat renders v with a fixed number of decimals, or exactly when
// precision is PrecisionExact.
func FormatFloat(v float64, precision int32) string {
	d := decimal.NewFromFloat(v)
	if precision == PrecisionExact {
		return d.String()
	}
	return d.StringFixed(precision)
}

// ParseFloatCell parses a numeric cell produced by FormatFloat.
func ParseFloatCell(cell string) (float64, error) {
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, fmt.Errorf("parse cell %q: %w", cell, err)
	}
	return d.InexactFloat64(), nil
}

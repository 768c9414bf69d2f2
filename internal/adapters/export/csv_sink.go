package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

// CSVSink streams one sample row per frame to w, writing the header first.
type CSVSink struct {
	mu          sync.Mutex
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (c *CSVSink) Name() string { return "csv" }

func (c *CSVSink) WriteFrame(f domain.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.wroteHeader {
		if err := c.w.Write(Table{Columns: sampleColumns}.Header()); err != nil {
			return fmt.Errorf("csv header: %w", err)
		}
		c.wroteHeader = true
	}
	if err := c.w.Write(sampleRow(f)); err != nil {
		return fmt.Errorf("csv row: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

var _ ports.Sink = (*CSVSink)(nil)

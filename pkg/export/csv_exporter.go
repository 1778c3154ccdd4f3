package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	return e.RenderSections(0, data)
}

// RenderSections writes each dataset as its own header+rows block, separated
// by gap empty lines.
func (e *CSVExporter) RenderSections(gap int, sections ...Dataset) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("csv requires at least one section")
	}
	buf := &bytes.Buffer{}
	for i, section := range sections {
		if len(section.Headers) == 0 {
			return nil, fmt.Errorf("csv section %d requires at least one header", i)
		}
		if i > 0 {
			for j := 0; j < gap; j++ {
				buf.WriteString("\n")
			}
		}
		if err := writeSection(buf, section); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, data Dataset) error {
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

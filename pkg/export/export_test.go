package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVRenderSectionsSeparatesBlocks(t *testing.T) {
	exporter := NewCSVExporter()
	primary := Dataset{
		Headers: []string{"slug", "meeting_days"},
		Rows:    []map[string]string{{"slug": "vtp-math-6", "meeting_days": "mon|wed"}},
	}
	webinar := Dataset{
		Headers: []string{"Type", "Title"},
		Rows:    []map[string]string{{"Type": "LiveWebinar", "Title": "Math, Grade 6"}},
	}

	out, err := exporter.RenderSections(5, primary, webinar)
	require.NoError(t, err)

	expected := "slug,meeting_days\nvtp-math-6,mon|wed\n\n\n\n\n\nType,Title\nLiveWebinar,\"Math, Grade 6\"\n"
	assert.Equal(t, expected, string(out))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)

	_, err = NewCSVExporter().RenderSections(1)
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	rows := make([]map[string]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, map[string]string{"Slug": "vtp-math-6", "Status": "Pending"})
	}
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"Slug", "Status"}, Rows: rows}, "Class Requests")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXRenderWritesHeaderAndRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"Slug", "State"},
		Rows:    []map[string]string{{"Slug": "vtp-math-6", "State": "Published"}},
	}
	out, err := NewXLSXExporter().Render(data, "Courses")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Courses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Slug", "State"}, rows[0])
	assert.Equal(t, []string{"vtp-math-6", "Published"}, rows[1])
	assert.False(t, strings.Contains(strings.Join(f.GetSheetList(), ","), "Sheet1"))
}

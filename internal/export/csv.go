package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/technolab03/Technolab-dashboard/internal/query"
)

// CSV serializes a rendered table to UTF-8 comma-separated text with a header
// row. The input is a session snapshot, never a fresh query, so the download
// matches what was on screen for that render pass.
func CSV(t query.Table) ([]byte, error) {
	if len(t.Columns) == 0 && len(t.Rows) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename 下载文件名：{kind}_BIM{device}.{ext}
func Filename(kind string, deviceNumber int, ext string) string {
	return fmt.Sprintf("%s_BIM%d.%s", kind, deviceNumber, ext)
}

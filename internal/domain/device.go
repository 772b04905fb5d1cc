package domain

import (
	"strconv"
	"strings"

	"github.com/technolab03/Technolab-dashboard/internal/query"
)

// Device 设备（BIM）读模型
// 使用强类型领域模型，不使用map[string]any
type Device struct {
	ID                  int64   `json:"id"`
	ClientName          string  `json:"client_name"`
	DeviceNumber        int     `json:"device_number"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	Height              float64 `json:"height"`
	MicroalgaeType      string  `json:"microalgae_type"`
	UsesArtificialLight bool    `json:"uses_artificial_light"`
	AeratorType         string  `json:"aerator_type"`
	InstallationDate    string  `json:"installation_date"`
}

// DevicesFromTable converts the device-listing result into typed devices.
// Unparseable cells degrade to zero values instead of failing the listing.
func DevicesFromTable(t query.Table) []Device {
	idx := func(name string) int { return t.ColumnIndex(name) }
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	iID := idx("id")
	iClient := idx("client_name")
	iNumber := idx("device_number")
	iLat := idx("latitude")
	iLon := idx("longitude")
	iHeight := idx("height")
	iAlgae := idx("microalgae_type")
	iLight := idx("uses_artificial_light")
	iAerator := idx("aerator_type")
	iInstalled := idx("installation_date")

	out := make([]Device, 0, len(t.Rows))
	for _, row := range t.Rows {
		d := Device{
			ClientName:       cell(row, iClient),
			MicroalgaeType:   cell(row, iAlgae),
			AeratorType:      cell(row, iAerator),
			InstallationDate: cell(row, iInstalled),
		}
		d.ID, _ = strconv.ParseInt(cell(row, iID), 10, 64)
		d.DeviceNumber, _ = strconv.Atoi(cell(row, iNumber))
		d.Latitude, _ = strconv.ParseFloat(cell(row, iLat), 64)
		d.Longitude, _ = strconv.ParseFloat(cell(row, iLon), 64)
		d.Height, _ = strconv.ParseFloat(cell(row, iHeight), 64)
		d.UsesArtificialLight = parseBool(cell(row, iLight))
		out = append(out, d)
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

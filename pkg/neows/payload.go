package neows

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/neoscope/asteroid-paths/pkg/asteroid"
)

// lookupResponse is the subset of the NeoWs "neo lookup" body we read.
type lookupResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CloseApproachData []closeApproach `json:"close_approach_data"`
}

type closeApproach struct {
	CloseApproachDate string `json:"close_approach_date"`
	OrbitingBody      string `json:"orbiting_body"`
}

// decodeRecord parses a lookup body into an ApproachRecord. A missing
// close_approach_data list yields a record with no events; an entry with a
// missing or malformed date is an error.
func decodeRecord(body []byte) (*asteroid.ApproachRecord, error) {
	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	record := &asteroid.ApproachRecord{
		ID:     payload.ID,
		Name:   payload.Name,
		Events: make([]asteroid.CloseApproachEvent, 0, len(payload.CloseApproachData)),
	}
	for i, ca := range payload.CloseApproachData {
		date, err := asteroid.ParseDate(ca.CloseApproachDate)
		if err != nil {
			return nil, fmt.Errorf("close_approach_data[%d]: %w", i, err)
		}
		record.Events = append(record.Events, asteroid.CloseApproachEvent{
			Date:         date,
			OrbitingBody: ca.OrbitingBody,
		})
	}
	return record, nil
}

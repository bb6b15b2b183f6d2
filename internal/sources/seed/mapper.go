package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/domain"
)

const dateLayout = "2006-01-02"

// Entry is a client ready to be added, with its memories.
// EventFields.ClientID is left empty until the client exists.
type Entry struct {
	Client   domain.ClientFields
	Memories []MappedMemory
}

// MappedMemory is a memory converted to domain fields.
type MappedMemory struct {
	Fields domain.EventFields
	Done   bool
}

// Mapper converts a roster to domain values.
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a mapper that reads dates as midnight in loc.
func NewMapper(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{loc: loc}
}

// Map validates every entry; the first invalid one aborts the mapping.
func (m *Mapper) Map(roster Roster) ([]Entry, error) {
	entries := make([]Entry, 0, len(roster.Clients))

	for i, c := range roster.Clients {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("client #%d: name is required", i+1)
		}

		entry := Entry{
			Client: domain.ClientFields{
				Name:          name,
				Email:         strings.TrimSpace(c.Email),
				Phone:         strings.TrimSpace(c.Phone),
				PersonalFacts: c.Facts,
			},
			Memories: make([]MappedMemory, 0, len(c.Memories)),
		}

		for j, mem := range c.Memories {
			fields, err := m.mapMemory(mem)
			if err != nil {
				return nil, fmt.Errorf("client %q memory #%d: %w", name, j+1, err)
			}
			fields.ClientName = name
			entry.Memories = append(entry.Memories, MappedMemory{Fields: fields, Done: mem.Done})
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (m *Mapper) mapMemory(mem Memory) (domain.EventFields, error) {
	eventType := domain.EventType(strings.TrimSpace(mem.Type))
	if eventType == "" {
		eventType = domain.EventOther
	}
	if !eventType.Valid() {
		return domain.EventFields{}, fmt.Errorf("unknown type %q", mem.Type)
	}

	description := strings.TrimSpace(mem.Description)
	if description == "" {
		return domain.EventFields{}, fmt.Errorf("description is required")
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(mem.Date), m.loc)
	if err != nil {
		return domain.EventFields{}, fmt.Errorf("invalid date %q: %w", mem.Date, err)
	}

	clock := strings.TrimSpace(mem.Time)
	if clock != "" {
		if _, err := domain.ParseClock(clock); err != nil {
			return domain.EventFields{}, err
		}
	}

	return domain.EventFields{
		EventType:    eventType,
		Description:  description,
		ReminderDate: date,
		ReminderTime: clock,
		Notes:        mem.Notes,
	}, nil
}

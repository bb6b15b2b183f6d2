package seed

// Memory is one dated reminder nested under a client in the roster.
type Memory struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"` // YYYY-MM-DD
	Time        string `yaml:"time"` // optional HH:MM
	Notes       string `yaml:"notes"`
	Done        bool   `yaml:"done"`
}

// ClientEntry is one client of the roster.
type ClientEntry struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Facts    string   `yaml:"facts"`
	Memories []Memory `yaml:"memories"`
}

// Roster is the root structure of a seed file.
type Roster struct {
	Clients []ClientEntry `yaml:"clients"`
}

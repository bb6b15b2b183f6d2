package domain

// Client is a person the user keeps relationship context about.
type Client struct {
	// ID is assigned by the store at creation and never changes.
	ID string `json:"id"`

	// Name is the display name. Callers must not submit it empty;
	// the store itself does not reject an empty name.
	Name string `json:"name"`

	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PersonalFacts string `json:"personalFacts,omitempty"`
}

// ClientFields holds every client attribute except the identifier.
type ClientFields struct {
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,max=50"`
	PersonalFacts string `json:"personalFacts,omitempty"`
}

// WithID materializes the fields into a Client carrying id.
func (f ClientFields) WithID(id string) Client {
	return Client{
		ID:            id,
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		PersonalFacts: f.PersonalFacts,
	}
}

// Fields returns the mutable part of the client.
func (c Client) Fields() ClientFields {
	return ClientFields{
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		PersonalFacts: c.PersonalFacts,
	}
}

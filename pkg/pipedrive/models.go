package pipedrive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PersonRef is the deal's reference to its person. Pipedrive is inconsistent
// about the shape: depending on the endpoint and account settings, person_id
// arrives as a bare number, a string, or a composite object carrying the
// identifier under "value". All shapes normalize to one scalar ID here.
type PersonRef struct {
	ID string
}

// IsZero reports whether the deal has no person linked.
func (r PersonRef) IsZero() bool {
	return r.ID == ""
}

func (r *PersonRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.ID = ""
		return nil
	}

	switch data[0] {
	case '{':
		var composite struct {
			Value json.Number `json:"value"`
		}
		if err := json.Unmarshal(data, &composite); err != nil {
			return fmt.Errorf("invalid person reference object: %w", err)
		}
		r.ID = composite.Value.String()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.ID = s
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid person reference: %w", err)
		}
		r.ID = n.String()
		return nil
	}
}

func (r PersonRef) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(r.ID)
}

// Deal is a Pipedrive deal, read-only here except for the one custom field the
// resolver writes back.
type Deal struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	PersonID PersonRef `json:"person_id"`
}

// Email is one entry of a person's email list.
type Email struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

// Person is a Pipedrive person with its email list.
type Person struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email []Email `json:"email"`
}

// PrimaryEmail returns the person's primary email, if one is flagged.
func (p *Person) PrimaryEmail() (string, bool) {
	for _, e := range p.Email {
		if e.Primary && e.Value != "" {
			return e.Value, true
		}
	}
	return "", false
}

// Note is a Pipedrive note attached to a deal.
type Note struct {
	ID     int64  `json:"id"`
	DealID int64  `json:"deal_id"`
	Content string `json:"content"`
}

// envelope is the Pipedrive v1 response wrapper.
type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

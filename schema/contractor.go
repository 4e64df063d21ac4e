package schema

// Contractor represents a client company orders are placed for.
type Contractor struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Inn     string `json:"inn,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c Contractor) Key() int { return c.Id }

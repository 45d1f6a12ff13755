package control

// Message is a control websocket payload sent by the touchpad client.
type Message struct {
	T       string  `json:"t"`
	ID      int     `json:"id,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Button  string  `json:"button,omitempty"`
	Address string  `json:"address,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// StatusMessage is a user-facing notification pushed to the client.
type StatusMessage struct {
	T    string `json:"t"`
	Text string `json:"text"`
	OK   bool   `json:"ok"`
}

// StateMessage reports the link and input state to the client.
type StateMessage struct {
	T            string `json:"t"`
	Connected    bool   `json:"connected"`
	Address      string `json:"address,omitempty"`
	InputEnabled bool   `json:"inputEnabled"`
}

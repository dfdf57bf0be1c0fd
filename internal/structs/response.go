package structs

type Response struct {
	Status      string      `json:"status"`
	Description string      `json:"description,omitempty"`
	Payload     interface{} `json:"payload,omitempty"`
}

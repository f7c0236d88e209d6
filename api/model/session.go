package model

import "encoding/json"

type UpdateSessionKey struct {
	UseCustomKey *bool   `json:"use_custom_key"`
	CustomKey    *string `json:"custom_key"`
}

// ProxyRequest is the POST body of the compliance proxy. GET requests pass the endpoint as a
// query parameter instead.
type ProxyRequest struct {
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
	Data     json.RawMessage `json:"data"`
}

type Webhook struct {
	Message string `json:"message"`
}

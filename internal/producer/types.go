package producer

// SubscribeRequest is the registration request sent to the producer
type SubscribeRequest struct {
	URL        string   `json:"url"`
	ConsumerID string   `json:"consumerId"`
	EventTypes []string `json:"eventTypes"`
}

// SubscriptionResult is the producer's response to a registration request.
// Some producer versions return the signing secret inline; others require a
// follow-up secret lookup by endpoint id. Both shapes decode into this type.
type SubscriptionResult struct {
	Success    bool   `json:"success"`
	EndpointID string `json:"endpointId"`
	Secret     string `json:"secret,omitempty"`
	Message    string `json:"message,omitempty"`
}

// SecretResult is the producer's response to a secret lookup
type SecretResult struct {
	Success bool   `json:"success"`
	Secret  string `json:"secret"`
	Message string `json:"message,omitempty"`
}

// Endpoint describes a registered callback endpoint as the producer sees it
type Endpoint struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	ConsumerID string   `json:"consumerId,omitempty"`
	EventTypes []string `json:"eventTypes,omitempty"`
}

// EndpointsResponse is the producer's listing of all registered endpoints
type EndpointsResponse struct {
	Success   bool       `json:"success"`
	Endpoints []Endpoint `json:"endpoints"`
}

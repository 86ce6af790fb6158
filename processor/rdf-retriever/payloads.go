package rdfretriever

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semrdf/vocabulary/resource"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
)

// RegisterPayloads registers the resource entity and resource event payload
// types with the supplied registry. Called from the semrdf binary at bootstrap.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	registrations := []*payloadregistry.Registration{
		{
			Domain:      ResourceEntityType.Domain,
			Category:    ResourceEntityType.Category,
			Version:     ResourceEntityType.Version,
			Description: "Retrieved RDF resource entity payload for graph ingestion",
			Factory:     func() any { return &ResourceEntityPayload{} },
		},
		{
			Domain:      ResourceEventType.Domain,
			Category:    ResourceEventType.Category,
			Version:     ResourceEventType.Version,
			Description: "Resource change event requesting retrieval",
			Factory:     func() any { return &ResourceEvent{} },
		},
	}

	var errs []error
	for _, r := range registrations {
		if err := reg.Register(r); err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", r.MessageType(), err))
		}
	}
	return errors.Join(errs...)
}

// ResourceEntityType is the message type for resource entity payloads.
var ResourceEntityType = message.Type{Domain: "resource", Category: "entity", Version: "v1"}

// ResourceEventType is the message type for resource change events.
var ResourceEventType = message.Type{Domain: "resource", Category: "event", Version: "v1"}

// ResourceEntityPayload implements message.Payload and graph.Graphable for retrieved resources.
type ResourceEntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EntityID returns the entity identifier for Graphable interface.
func (p *ResourceEntityPayload) EntityID() string { return p.EntityID_ }

// Triples returns the entity triples for Graphable interface.
func (p *ResourceEntityPayload) Triples() []message.Triple { return p.TripleData }

// Schema returns the message type for Payload interface.
func (p *ResourceEntityPayload) Schema() message.Type { return ResourceEntityType }

// Validate validates the payload for Payload interface.
func (p *ResourceEntityPayload) Validate() error {
	if p.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ResourceEntityPayload) MarshalJSON() ([]byte, error) {
	type Alias ResourceEntityPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ResourceEntityPayload) UnmarshalJSON(data []byte) error {
	type Alias ResourceEntityPayload
	return json.Unmarshal(data, (*Alias)(p))
}

// ResourceEvent announces that a resource was created, updated or deleted
// in the repository.
type ResourceEvent struct {
	URI       string             `json:"uri"`
	Type      resource.EventType `json:"type"`
	Timestamp time.Time          `json:"timestamp,omitempty"`
}

// Schema returns the message type for Payload interface.
func (e *ResourceEvent) Schema() message.Type { return ResourceEventType }

// Validate validates the event.
func (e *ResourceEvent) Validate() error {
	if e.URI == "" {
		return errors.New("uri is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *ResourceEvent) MarshalJSON() ([]byte, error) {
	type Alias ResourceEvent
	return json.Marshal((*Alias)(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ResourceEvent) UnmarshalJSON(data []byte) error {
	type Alias ResourceEvent
	return json.Unmarshal(data, (*Alias)(e))
}

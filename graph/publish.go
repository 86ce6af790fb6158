// Package graph provides utilities for publishing entities to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360studio/semstreams/message"
)

// GraphIngestSubject is the subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// Publisher publishes raw data to a JetStream subject.
// *natsclient.Client satisfies it.
type Publisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Entity is a payload that describes one graph entity.
type Entity interface {
	message.Payload
	EntityID() string
}

// PublishEntity wraps entity in a BaseMessage and publishes it to subject.
func PublishEntity(ctx context.Context, p Publisher, subject, source string, entity Entity) error {
	if p == nil {
		return fmt.Errorf("publisher required")
	}
	if err := entity.Validate(); err != nil {
		return fmt.Errorf("invalid entity: %w", err)
	}

	msg := message.NewBaseMessage(entity.Schema(), entity, source)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal entity message: %w", err)
	}

	if err := p.PublishToStream(ctx, subject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", entity.EntityID(), err)
	}
	return nil
}

// PublishEntities publishes entities in order and stops at the first failure.
// It returns how many entities were published.
func PublishEntities[E Entity](ctx context.Context, p Publisher, subject, source string, entities []E) (int, error) {
	for i, entity := range entities {
		if err := PublishEntity(ctx, p, subject, source, entity); err != nil {
			return i, err
		}
	}
	return len(entities), nil
}

// EntityID builds a six-part dotted entity ID:
// <org>.<platform>.<domain>.<system>.<type>.<instance>
func EntityID(org, platform, domain, system, typ, instance string) string {
	return strings.Join([]string{org, platform, domain, system, typ, instance}, ".")
}

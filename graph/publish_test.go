package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	subjects []string
	data     [][]byte
	failAt   int
}

func (r *recordingPublisher) PublishToStream(_ context.Context, subject string, data []byte) error {
	if r.failAt > 0 && len(r.subjects)+1 == r.failAt {
		return errors.New("stream unavailable")
	}
	r.subjects = append(r.subjects, subject)
	r.data = append(r.data, data)
	return nil
}

var testType = message.Type{Domain: "test", Category: "entity", Version: "v1"}

type testEntity struct {
	ID string `json:"id"`
}

func (e *testEntity) EntityID() string     { return e.ID }
func (e *testEntity) Schema() message.Type { return testType }
func (e *testEntity) Validate() error {
	if e.ID == "" {
		return errors.New("entity ID is required")
	}
	return nil
}
func (e *testEntity) MarshalJSON() ([]byte, error) {
	type Alias testEntity
	return json.Marshal((*Alias)(e))
}
func (e *testEntity) UnmarshalJSON(data []byte) error {
	type Alias testEntity
	return json.Unmarshal(data, (*Alias)(e))
}

func TestPublishEntity(t *testing.T) {
	pub := &recordingPublisher{}

	err := PublishEntity(context.Background(), pub, GraphIngestSubject, "test", &testEntity{ID: "a.b.c.d.e.f"})
	require.NoError(t, err)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, GraphIngestSubject, pub.subjects[0])
	assert.Contains(t, string(pub.data[0]), `"a.b.c.d.e.f"`)
}

func TestPublishEntity_Errors(t *testing.T) {
	ctx := context.Background()

	err := PublishEntity(ctx, nil, GraphIngestSubject, "test", &testEntity{ID: "x"})
	assert.Error(t, err)

	pub := &recordingPublisher{}
	err = PublishEntity(ctx, pub, GraphIngestSubject, "test", &testEntity{})
	assert.ErrorContains(t, err, "invalid entity")
	assert.Empty(t, pub.subjects)
}

func TestPublishEntities_StopsAtFirstFailure(t *testing.T) {
	pub := &recordingPublisher{failAt: 2}
	entities := []*testEntity{{ID: "one"}, {ID: "two"}, {ID: "three"}}

	n, err := PublishEntities(context.Background(), pub, GraphIngestSubject, "test", entities)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "two")
	assert.Len(t, pub.subjects, 1)
}

func TestEntityID(t *testing.T) {
	assert.Equal(t, "c360.semrdf.resource.rdf.subject.abc",
		EntityID("c360", "semrdf", "resource", "rdf", "subject", "abc"))
}

package rdfretriever

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/c360studio/semrdf/vocabulary/resource"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMsg records how a message was settled. Methods the component does not
// call are left to the embedded nil interface.
type fakeMsg struct {
	jetstream.Msg
	data    []byte
	settled string
}

func (m *fakeMsg) Data() []byte    { return m.data }
func (m *fakeMsg) Subject() string { return "resource.event.test" }

func (m *fakeMsg) Ack() error {
	m.settled = "ack"
	return nil
}

func (m *fakeMsg) Nak() error {
	m.settled = "nak"
	return nil
}

func (m *fakeMsg) Term() error {
	m.settled = "term"
	return nil
}

type fakePublisher struct {
	messages []map[string]any
	err      error
}

func (p *fakePublisher) PublishToStream(_ context.Context, subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	decoded["_subject"] = subject
	p.messages = append(p.messages, decoded)
	return nil
}

func newTestComponent(doer doerFunc, pub *fakePublisher) *Component {
	cfg := DefaultConfig()
	return &Component{
		name:          componentName,
		config:        cfg,
		logger:        slog.Default(),
		publisher:     pub,
		handler:       newTestHandler(doer),
		inputSubject:  cfg.inputSubject(),
		outputSubject: cfg.outputSubject(),
	}
}

func eventData(t *testing.T, uri string, typ resource.EventType) []byte {
	t.Helper()
	data, err := json.Marshal(&ResourceEvent{URI: uri, Type: typ})
	require.NoError(t, err)
	return data
}

func TestHandleMessage_Dispositions(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		doer         doerFunc
		publishErr   error
		wantSettled  string
		wantMessages int
		wantOutcome  string
	}{
		{
			name:         "indexed",
			data:         eventData(t, bookURI, resource.EventCreate),
			doer:         respond(http.StatusOK, bookDescription),
			wantSettled:  "ack",
			wantOutcome:  "indexed",
			wantMessages: 3,
		},
		{
			name:         "absent",
			data:         eventData(t, bookURI, resource.EventUpdate),
			doer:         respond(http.StatusNotFound, ""),
			wantSettled:  "ack",
			wantOutcome:  "absent",
			wantMessages: 1,
		},
		{
			name:         "forbidden",
			data:         eventData(t, bookURI, resource.EventUpdate),
			doer:         respond(http.StatusForbidden, ""),
			wantSettled:  "ack",
			wantOutcome:  "forbidden",
			wantMessages: 1,
		},
		{
			name:         "deleted",
			data:         eventData(t, bookURI, resource.EventDelete),
			doer:         respond(http.StatusOK, ""),
			wantSettled:  "ack",
			wantOutcome:  "deleted",
			wantMessages: 1,
		},
		{
			name:        "server error redelivered",
			data:        eventData(t, bookURI, resource.EventCreate),
			doer:        respond(http.StatusBadGateway, ""),
			wantSettled: "nak",
			wantOutcome: "status",
		},
		{
			name: "unreachable redelivered",
			data: eventData(t, bookURI, resource.EventCreate),
			doer: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
			wantSettled: "nak",
			wantOutcome: "connectivity",
		},
		{
			name:        "malformed description terminated",
			data:        eventData(t, bookURI, resource.EventCreate),
			doer:        respond(http.StatusOK, "not n-triples"),
			wantSettled: "term",
			wantOutcome: "parse",
		},
		{
			name:        "client error terminated",
			data:        eventData(t, bookURI, resource.EventCreate),
			doer:        respond(http.StatusGone, ""),
			wantSettled: "term",
			wantOutcome: "status",
		},
		{
			name:        "garbage event terminated",
			data:        []byte("{not json"),
			doer:        respond(http.StatusOK, ""),
			wantSettled: "term",
			wantOutcome: outcomeInvalid,
		},
		{
			name:        "invalid event terminated",
			data:        []byte(`{"uri":"","type":"create"}`),
			doer:        respond(http.StatusOK, ""),
			wantSettled: "term",
			wantOutcome: outcomeInvalid,
		},
		{
			name:        "publish failure redelivered",
			data:        eventData(t, bookURI, resource.EventCreate),
			doer:        respond(http.StatusOK, bookDescription),
			publishErr:  errors.New("stream unavailable"),
			wantSettled: "nak",
			wantOutcome: outcomePublish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{err: tt.publishErr}
			c := newTestComponent(tt.doer, pub)
			c.metrics = newFetchMetrics(metric.NewMetricsRegistry())
			msg := &fakeMsg{data: tt.data}

			c.handleMessage(context.Background(), msg)

			assert.Equal(t, tt.wantSettled, msg.settled)
			assert.Len(t, pub.messages, tt.wantMessages)
			assert.False(t, c.DataFlow().LastActivity.IsZero())

			// Each message is counted once, under its final outcome.
			assert.Equal(t, 1, testutil.CollectAndCount(c.metrics.fetchTotal))
			assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.fetchTotal.WithLabelValues(tt.wantOutcome)))
		})
	}
}

func TestHandleMessage_PublishOrder(t *testing.T) {
	pub := &fakePublisher{}
	c := newTestComponent(respond(http.StatusOK, bookDescription), pub)

	c.handleMessage(context.Background(), &fakeMsg{data: eventData(t, bookURI, resource.EventCreate)})

	require.Len(t, pub.messages, 3)
	statusID := c.handler.ResourceEntityID(bookURI)
	for i, m := range pub.messages {
		assert.Equal(t, graphIngestSubject, m["_subject"])
		payload, ok := m["payload"].(map[string]any)
		require.True(t, ok, "message %d has no payload: %v", i, m)
		if i == len(pub.messages)-1 {
			assert.Equal(t, statusID, payload["id"], "status entity is published last")
		} else {
			assert.NotEqual(t, statusID, payload["id"])
		}
	}
	assert.Equal(t, int64(3), c.entitiesPublish.Load())
	assert.Equal(t, int64(1), c.resourcesIndexed.Load())
}

func TestResourceEntityPayload_BaseMessage(t *testing.T) {
	entity := &ResourceEntityPayload{EntityID_: "c360.semrdf.resource.rdf.resource.abc"}
	msg := message.NewBaseMessage(ResourceEntityType, entity, "semrdf")

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"c360.semrdf.resource.rdf.resource.abc"`)
}

func TestRegisterPayloads(t *testing.T) {
	reg := payloadregistry.NewForTest(t)
	require.NoError(t, RegisterPayloads(reg))

	_, ok := reg.GetRegistration("resource.entity.v1")
	assert.True(t, ok)
	_, ok = reg.GetRegistration("resource.event.v1")
	assert.True(t, ok)

	entity := &ResourceEntityPayload{EntityID_: "c360.semrdf.resource.rdf.resource.abc"}
	data, err := json.Marshal(message.NewBaseMessage(ResourceEntityType, entity, "semrdf"))
	require.NoError(t, err)

	decoded, err := message.NewDecoder(reg).Decode(data)
	require.NoError(t, err)
	payload, ok := decoded.Payload().(*ResourceEntityPayload)
	require.True(t, ok, "payload decoded as %T", decoded.Payload())
	assert.Equal(t, entity.EntityID_, payload.EntityID())

	assert.Error(t, RegisterPayloads(reg), "second registration is a duplicate")
}

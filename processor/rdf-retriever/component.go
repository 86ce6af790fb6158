package rdfretriever

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/transport"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	componentName    = "rdf-retriever"
	componentVersion = "0.1.0"
)

// rdfRetrieverSchema defines the configuration schema.
var rdfRetrieverSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// graphIngestSubject is the subject for publishing entities.
const graphIngestSubject = graph.GraphIngestSubject

// Component implements the rdf-retriever processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	publisher  graph.Publisher
	logger     *slog.Logger
	platform   component.PlatformMeta
	handler    *Handler
	metrics    *fetchMetrics

	inputSubject  string
	outputSubject string

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Counters
	resourcesIndexed atomic.Int64
	entitiesPublish  atomic.Int64
	redelivered      atomic.Int64
	terminated       atomic.Int64
	errors           atomic.Int64
	lastActivityMu   sync.RWMutex
	lastActivity     time.Time
}

var _ component.LifecycleComponent = (*Component)(nil)

// NewComponent creates a new rdf-retriever processor component.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.Ports == nil {
		config = DefaultConfig()
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("unmarshal config with defaults: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Component{
		name:          componentName,
		config:        config,
		natsClient:    deps.NATSClient,
		logger:        deps.GetLogger(),
		platform:      deps.Platform,
		metrics:       newFetchMetrics(deps.MetricsRegistry),
		inputSubject:  config.inputSubject(),
		outputSubject: config.outputSubject(),
	}
	if deps.NATSClient != nil {
		c.publisher = deps.NATSClient
	}
	return c, nil
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	return nil
}

// Start begins consuming resource events.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}

	c.running = true
	c.startTime = time.Now()
	c.handler = NewHandler(transport.NewHTTPClient(c.config.TransportConfig()), c.platform, c.logger)

	consumeCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	consumerCfg := natsclient.StreamConsumerConfig{
		StreamName:    c.config.StreamName,
		ConsumerName:  c.config.ConsumerName,
		FilterSubject: c.inputSubject,
		DeliverPolicy: "new",
		AckPolicy:     "explicit",
		MaxDeliver:    c.config.GetMaxDeliver(),
		AckWait:       c.config.GetAckWait(),
	}

	if err := c.natsClient.ConsumeStreamWithConfig(consumeCtx, consumerCfg, c.handleMessage); err != nil {
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("start consumer: %w", err)
	}

	c.logger.Info("RDF retriever started",
		"stream", c.config.StreamName,
		"consumer", c.config.ConsumerName,
		"input", c.inputSubject,
		"output", c.outputSubject)

	return nil
}

// handleMessage processes a single resource event.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	c.updateLastActivity()
	start := time.Now()

	var event ResourceEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		c.logger.Warn("Failed to parse resource event",
			"subject", msg.Subject(),
			"error", err)
		c.errors.Add(1)
		c.metrics.observe(outcomeInvalid, time.Since(start))
		c.settle(msg, dispositionTerm)
		return
	}

	result, err := c.handler.Handle(ctx, event)
	if err != nil {
		c.metrics.observe(outcomeLabel(result, err), time.Since(start))
		d := classify(err)
		c.logger.Warn("Resource retrieval failed",
			"uri", event.URI,
			"event", event.Type,
			"disposition", d.String(),
			"error", err)
		c.errors.Add(1)
		c.settle(msg, d)
		return
	}

	if err := c.publishResult(ctx, result); err != nil {
		c.logger.Error("Failed to publish resource entities",
			"uri", result.URI,
			"fetch_id", result.FetchID,
			"error", err)
		c.errors.Add(1)
		c.metrics.observe(outcomePublish, time.Since(start))
		c.settle(msg, dispositionNak)
		return
	}

	c.metrics.observe(outcomeLabel(result, nil), time.Since(start))
	c.resourcesIndexed.Add(1)
	c.settle(msg, dispositionAck)

	c.logger.Info("Resource indexed",
		"uri", result.URI,
		"fetch_id", result.FetchID,
		"status", result.Status,
		"triples", result.TripleCount,
		"entities", len(result.Entities))
}

// publishResult publishes subject entities first and the status entity last,
// so a status entity is never visible before the statements it counts.
func (c *Component) publishResult(ctx context.Context, result *Result) error {
	n, err := graph.PublishEntities(ctx, c.publisher, c.outputSubject, "semrdf", result.Entities)
	c.entitiesPublish.Add(int64(n))
	return err
}

// settle applies a disposition to msg.
func (c *Component) settle(msg jetstream.Msg, d disposition) {
	var err error
	switch d {
	case dispositionAck:
		err = msg.Ack()
	case dispositionNak:
		c.redelivered.Add(1)
		err = msg.Nak()
	case dispositionTerm:
		c.terminated.Add(1)
		err = msg.Term()
	}
	if err != nil {
		c.logger.Debug("Failed to settle message", "disposition", d.String(), "error", err)
	}
}

// updateLastActivity safely updates the last activity timestamp.
func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

// getLastActivity safely retrieves the last activity timestamp.
func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}

// Stop gracefully stops the component.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.running = false

	c.logger.Info("RDF retriever stopped",
		"resources_indexed", c.resourcesIndexed.Load(),
		"entities_published", c.entitiesPublish.Load(),
		"redelivered", c.redelivered.Load(),
		"terminated", c.terminated.Load(),
		"errors", c.errors.Load())

	return nil
}

// Discoverable interface implementation

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        componentName,
		Type:        "processor",
		Description: "Retrieves RDF resource descriptions and publishes them as graph entities",
		Version:     componentVersion,
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = buildPort(portDef, component.DirectionInput)
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = buildPort(portDef, component.DirectionOutput)
	}
	return ports
}

func buildPort(portDef component.PortDefinition, direction component.Direction) component.Port {
	port := component.Port{
		Name:        portDef.Name,
		Direction:   direction,
		Required:    portDef.Required,
		Description: portDef.Description,
	}
	if portDef.Type == "jetstream" {
		port.Config = component.JetStreamPort{
			StreamName: portDef.StreamName,
			Subjects:   []string{portDef.Subject},
		}
	} else {
		port.Config = component.NATSPort{
			Subject: portDef.Subject,
		}
	}
	return port
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return rdfRetrieverSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errors.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		LastActivity: c.getLastActivity(),
	}
}

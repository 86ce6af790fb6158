package rdfretriever

import (
	"fmt"
	"time"

	"github.com/c360studio/semrdf/transport"
	"github.com/c360studio/semstreams/component"
)

// Config holds configuration for the rdf-retriever processor component.
type Config struct {
	Ports *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`

	// StreamName is the JetStream stream carrying resource change events.
	StreamName string `json:"stream_name" schema:"type:string,description:JetStream stream name,category:basic,default:RESOURCES"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name" schema:"type:string,description:Durable consumer name,category:basic,default:rdf-retriever"`

	// FetchTimeout bounds one retrieval including the body.
	FetchTimeout string `json:"fetch_timeout" schema:"type:string,description:HTTP fetch timeout,category:advanced,default:30s"`

	// UserAgent is the User-Agent header for HTTP requests.
	UserAgent string `json:"user_agent" schema:"type:string,description:HTTP User-Agent header,category:advanced,default:semrdf-retriever/1.0"`

	// MaxIdleConns caps pooled idle connections to the repository.
	MaxIdleConns int `json:"max_idle_conns" schema:"type:int,description:Maximum idle HTTP connections,category:advanced,default:10"`

	// Username and Password enable HTTP basic authentication.
	Username string `json:"username" schema:"type:string,description:Repository username for basic auth,category:advanced"`
	Password string `json:"password" schema:"type:string,description:Repository password for basic auth,category:advanced"`

	// BearerToken enables bearer authentication. Exclusive with Username.
	BearerToken string `json:"bearer_token" schema:"type:string,description:Repository bearer token,category:advanced"`

	// MaxDeliver is how many times an event is delivered before giving up.
	MaxDeliver int `json:"max_deliver" schema:"type:int,description:Maximum delivery attempts per event,category:advanced,default:5"`

	// AckWait is how long JetStream waits for an ack before redelivery.
	AckWait string `json:"ack_wait" schema:"type:string,description:Ack wait before redelivery,category:advanced,default:60s"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream_name is required")
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("consumer_name is required")
	}
	if c.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
			return fmt.Errorf("invalid fetch_timeout format: %w", err)
		}
	}
	if c.AckWait != "" {
		if _, err := time.ParseDuration(c.AckWait); err != nil {
			return fmt.Errorf("invalid ack_wait format: %w", err)
		}
	}
	if c.MaxDeliver < 0 {
		return fmt.Errorf("max_deliver must be non-negative")
	}
	if err := c.TransportConfig().Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	return nil
}

// parseDurationOrDefault parses a duration string and returns the default if empty or invalid.
func parseDurationOrDefault(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// GetFetchTimeout returns the fetch timeout as a duration.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOrDefault(c.FetchTimeout, 30*time.Second)
}

// GetAckWait returns the ack wait as a duration.
func (c *Config) GetAckWait() time.Duration {
	return parseDurationOrDefault(c.AckWait, 60*time.Second)
}

// GetMaxDeliver returns the delivery limit with default.
func (c *Config) GetMaxDeliver() int {
	if c.MaxDeliver <= 0 {
		return 5
	}
	return c.MaxDeliver
}

// TransportConfig maps the HTTP settings onto a transport.Config.
func (c *Config) TransportConfig() transport.Config {
	return transport.Config{
		Timeout:      c.GetFetchTimeout(),
		UserAgent:    c.UserAgent,
		MaxIdleConns: c.MaxIdleConns,
		Auth: transport.AuthConfig{
			Username:    c.Username,
			Password:    c.Password,
			BearerToken: c.BearerToken,
		},
	}
}

// inputSubject returns the subject filter of the first input port.
func (c *Config) inputSubject() string {
	if c.Ports != nil && len(c.Ports.Inputs) > 0 && c.Ports.Inputs[0].Subject != "" {
		return c.Ports.Inputs[0].Subject
	}
	return "resource.event.>"
}

// outputSubject returns the subject of the first output port.
func (c *Config) outputSubject() string {
	if c.Ports != nil && len(c.Ports.Outputs) > 0 && c.Ports.Outputs[0].Subject != "" {
		return c.Ports.Outputs[0].Subject
	}
	return graphIngestSubject
}

// DefaultConfig returns default configuration for rdf-retriever processor.
func DefaultConfig() Config {
	inputDefs := []component.PortDefinition{
		{
			Name:        "resource.in",
			Type:        "jetstream",
			Subject:     "resource.event.>",
			StreamName:  "RESOURCES",
			Required:    true,
			Description: "Resource change events",
		},
	}

	outputDefs := []component.PortDefinition{
		{
			Name:        "graph.out",
			Type:        "jetstream",
			Subject:     graphIngestSubject,
			StreamName:  "GRAPH",
			Required:    true,
			Description: "Entity state updates for graph ingestion",
		},
	}

	return Config{
		Ports: &component.PortConfig{
			Inputs:  inputDefs,
			Outputs: outputDefs,
		},
		StreamName:   "RESOURCES",
		ConsumerName: "rdf-retriever",
		FetchTimeout: "30s",
		UserAgent:    transport.DefaultUserAgent,
		MaxIdleConns: 10,
		MaxDeliver:   5,
		AckWait:      "60s",
	}
}

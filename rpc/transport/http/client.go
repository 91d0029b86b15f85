package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger(common.LoggerTransport)

// MetricsReporter is implemented by transports that record per endpoint
// metrics. Timers are named "<host>.requests", meters "<host>.failures".
type MetricsReporter interface {
	Metrics() gometrics.Registry
}

// NewHttpClientTransport creates a new, unconnected HTTP transport. The
// returned transport implements MetricsReporter.
func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{metrics: gometrics.NewRegistry()}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
	metrics    gometrics.Registry
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Parse each server URL
	parsedURLs := make([]*url.URL, len(config.Endpoints))
	for i, server := range config.Endpoints {
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		if parsedURL.Scheme == "" || parsedURL.Host == "" {
			return fmt.Errorf("invalid endpoint %q: scheme and host are required", server)
		}
		parsedURLs[i] = parsedURL
	}

	connsPerHost := 1
	if config.ConnectionsPerEndpoint > 0 {
		connsPerHost = config.ConnectionsPerEndpoint
	}

	// Create client with default transport
	client := &http.Client{
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: connsPerHost,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Set the client and server URLs
	t.client = client
	t.serverURLs = parsedURLs
	t.counter = 0
	t.retryCount = config.RetryCount

	Logger.Infof("Connected http transport to %d endpoints", len(parsedURLs))

	// No error
	return nil
}

func (t *httpClientTransport) Perform(ctx context.Context, req *common.Request) *common.Envelope {
	// Check if the transport is initialized
	if t.client == nil {
		env := common.NewFailedEnvelope(req, transport.ErrNotConnected)
		now := time.Now()
		env.AuditTrail = append(env.AuditTrail, common.Audit{Event: common.AuditNotConnected, Started: now, Ended: now, Err: transport.ErrNotConnected})
		return env
	}

	env := &common.Envelope{
		Method: req.Method,
		URI:    req.URI(),
	}

	// We always try at least once
	attempts := t.retryCount
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		// Select the next server via round-robin
		idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.serverURLs))
		serverURL := t.serverURLs[idx]

		retry := t.attempt(ctx, serverURL, req, env)
		if !retry {
			break
		}
		Logger.Debugf("Request attempt %d/%d to %s failed: %v", i+1, attempts, serverURL.Host, env.Err)
	}

	return env
}

func (t *httpClientTransport) PerformAsync(ctx context.Context, req *common.Request) <-chan *common.Envelope {
	return transport.Async(ctx, req, t.Perform)
}

func (t *httpClientTransport) Close() error {
	// Close the client
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	// Reset the client and server URLs
	t.client = nil
	t.serverURLs = nil

	// stops the meters ticking in the background
	t.metrics.UnregisterAll()

	return nil
}

// Metrics returns the per endpoint metrics of the transport. They are
// discarded on Close.
func (t *httpClientTransport) Metrics() gometrics.Registry {
	return t.metrics
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// attempt performs one try against serverURL and records the outcome in env.
// It returns true if the failure happened before a response was received and
// another node may be tried.
func (t *httpClientTransport) attempt(ctx context.Context, serverURL *url.URL, req *common.Request, env *common.Envelope) (retry bool) {
	started := time.Now()
	audit := common.Audit{Node: serverURL.String(), Started: started}
	defer func() {
		audit.Ended = time.Now()
		env.AuditTrail = append(env.AuditTrail, audit)
		gometrics.GetOrRegisterTimer(serverURL.Host+".requests", t.metrics).UpdateSince(started)
	}()

	// Create the request
	httpRequest, err := http.NewRequestWithContext(ctx, req.Method, strings.TrimSuffix(serverURL.String(), "/")+req.URI(), bytes.NewReader(req.Body))
	if err != nil {
		env.Err = err
		audit.Event, audit.Err = common.AuditTransportFailure, err
		return false
	}
	if req.ContentType != "" {
		httpRequest.Header.Set("Content-Type", req.ContentType)
	}
	httpRequest.Header.Set("Accept", "application/json")

	// Send the request
	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		env.Err = err
		audit.Event, audit.Err = common.AuditTransportFailure, err
		gometrics.GetOrRegisterMeter(serverURL.Host+".failures", t.metrics).Mark(1)
		// a cancelled context fails every following attempt as well
		return ctx.Err() == nil
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	// Read the response body
	body, err := io.ReadAll(httpResponse.Body)
	env.StatusCode = httpResponse.StatusCode
	env.Body = body
	env.Err = nil
	if err != nil {
		env.Err = fmt.Errorf("reading response body: %w", err)
	} else if !req.IsAllowed(httpResponse.StatusCode) {
		env.Err = fmt.Errorf("http error: %s", httpResponse.Status)
	}
	env.Success = env.Err == nil

	// A response from a node is final, only transport failures are retried
	if env.Success {
		audit.Event = common.AuditHealthyResponse
	} else {
		audit.Event, audit.Err = common.AuditBadResponse, env.Err
		gometrics.GetOrRegisterMeter(serverURL.Host+".failures", t.metrics).Mark(1)
	}
	return false
}

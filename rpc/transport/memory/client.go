package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger(common.LoggerTransport)

// node is the name recorded in the audit trail of every call
const node = "memory"

// Handler answers a request with a status code and a body
type Handler func(req *common.Request) (statusCode int, body []byte)

// Respond returns a handler that always answers with statusCode and body
func Respond(statusCode int, body string) Handler {
	return func(*common.Request) (int, []byte) {
		if body == "" {
			return statusCode, nil
		}
		return statusCode, []byte(body)
	}
}

// notFound is used when no route matches and no fallback is set
func notFound(req *common.Request) (int, []byte) {
	return http.StatusNotFound, []byte(fmt.Sprintf(`{"error":"no route for [%s %s]","status":404}`, req.Method, req.Path))
}

// MemoryTransport is an in-memory transport answering from registered routes.
// Routes match on the method and the path, the query string is ignored.
type MemoryTransport struct {
	routes    *xsync.MapOf[string, Handler]
	calls     *xsync.MapOf[string, *xsync.Counter]
	fallback  atomic.Pointer[Handler]
	connected atomic.Bool
}

// NewMemoryTransport creates a new, unconnected in-memory transport
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		routes: xsync.NewMapOf[string, Handler](),
		calls:  xsync.NewMapOf[string, *xsync.Counter](),
	}
}

// Handle registers h for method and path. An existing route is replaced.
func (t *MemoryTransport) Handle(method, path string, h Handler) *MemoryTransport {
	t.routes.Store(routeKey(method, path), h)
	return t
}

// Fallback sets the handler used when no route matches
func (t *MemoryTransport) Fallback(h Handler) *MemoryTransport {
	t.fallback.Store(&h)
	return t
}

// Calls returns how often method and path were performed, whether or not a
// route matched
func (t *MemoryTransport) Calls(method, path string) int64 {
	counter, ok := t.calls.Load(routeKey(method, path))
	if !ok {
		return 0
	}
	return counter.Value()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *MemoryTransport) Connect(common.ClientConfig) error {
	t.connected.Store(true)
	Logger.Debugf("Connected memory transport")
	return nil
}

func (t *MemoryTransport) Perform(ctx context.Context, req *common.Request) *common.Envelope {
	started := time.Now()
	audit := common.Audit{Node: node, Started: started}

	if !t.connected.Load() {
		env := common.NewFailedEnvelope(req, transport.ErrNotConnected)
		audit.Event, audit.Err, audit.Ended = common.AuditNotConnected, transport.ErrNotConnected, time.Now()
		env.AuditTrail = append(env.AuditTrail, audit)
		return env
	}
	if err := ctx.Err(); err != nil {
		env := common.NewFailedEnvelope(req, err)
		audit.Event, audit.Err, audit.Ended = common.AuditTransportFailure, err, time.Now()
		env.AuditTrail = append(env.AuditTrail, audit)
		return env
	}

	key := routeKey(req.Method, req.Path)
	counter, _ := t.calls.LoadOrCompute(key, xsync.NewCounter)
	counter.Inc()

	handler, ok := t.routes.Load(key)
	if !ok {
		handler = notFound
		if fb := t.fallback.Load(); fb != nil {
			handler = *fb
		}
	}

	status, body := handler(req)
	env := &common.Envelope{
		StatusCode: status,
		Method:     req.Method,
		URI:        req.URI(),
		Body:       body,
		Success:    req.IsAllowed(status),
	}
	if env.Success {
		audit.Event = common.AuditHealthyResponse
	} else {
		env.Err = fmt.Errorf("http error: %d %s", status, http.StatusText(status))
		audit.Event, audit.Err = common.AuditBadResponse, env.Err
	}
	audit.Ended = time.Now()
	env.AuditTrail = append(env.AuditTrail, audit)
	return env
}

func (t *MemoryTransport) PerformAsync(ctx context.Context, req *common.Request) <-chan *common.Envelope {
	return transport.Async(ctx, req, t.Perform)
}

func (t *MemoryTransport) Close() error {
	t.connected.Store(false)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func routeKey(method, path string) string {
	return method + " " + path
}

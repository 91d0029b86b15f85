package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport/memory"
	"github.com/VictoriaMetrics/metrics"
)

// TestDispatchNilDescriptor tests that a nil descriptor never reaches the transport
func TestDispatchNilDescriptor(t *testing.T) {
	c, tr := newTestClient(t, common.ClientConfig{})
	tr.Fallback(memory.Respond(http.StatusOK, `{}`))
	customize := func(*GetAliasesDescriptor) *GetAliasesDescriptor { return nil }

	resp, err := c.GetAliases(context.Background(), customize)
	if !errors.Is(err, ErrNilDescriptor) || resp != nil {
		t.Errorf("expected ErrNilDescriptor, got %v %v", resp, err)
	}

	_, err = c.GetAliasesAsync(context.Background(), customize).Await(context.Background())
	if !errors.Is(err, ErrNilDescriptor) {
		t.Errorf("expected ErrNilDescriptor from async, got %v", err)
	}

	if n := tr.Calls(http.MethodGet, "/_alias"); n != 0 {
		t.Errorf("transport was called %d times", n)
	}
}

// TestDispatchCustomizeOnce tests that customize runs exactly once per dispatch
// and that a nil customize keeps the initial descriptor
func TestDispatchCustomizeOnce(t *testing.T) {
	c, tr := newTestClient(t, common.ClientConfig{})
	tr.Fallback(memory.Respond(http.StatusOK, `{"acknowledged":true}`))

	var calls int32
	initial := NewAliasDescriptor().Add("a", "initial")
	customize := func(d *AliasDescriptor) *AliasDescriptor {
		atomic.AddInt32(&calls, 1)
		return d.Timeout("1s")
	}

	if _, err := Dispatch[IndicesOperationResponse](context.Background(), c, initial, customize, c.Raw().IndicesUpdateAliases); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if _, err := DispatchAsync[IndicesOperationResponse](context.Background(), c, NewAliasDescriptor(), customize, c.Raw().IndicesUpdateAliasesAsync).Await(context.Background()); err != nil {
		t.Fatalf("DispatchAsync() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("customize called %d times, want 2", n)
	}

	var seen *AliasDescriptor
	_, err := Dispatch[IndicesOperationResponse](context.Background(), c, initial, nil,
		func(ctx context.Context, p *AliasRequestParameters, d *AliasDescriptor) *common.Envelope {
			seen = d
			return c.Raw().IndicesUpdateAliases(ctx, p, d)
		})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if seen != initial {
		t.Error("nil customize should dispatch the initial descriptor")
	}
}

// TestDispatchSymmetry tests that both entry points produce the same
// responses for the same transport outcomes
func TestDispatchSymmetry(t *testing.T) {
	outcomes := []memory.Handler{
		memory.Respond(http.StatusOK, `{"acknowledged":true}`),
		memory.Respond(http.StatusOK, `{"acknowledged":false}`),
		memory.Respond(http.StatusOK, ``),
		memory.Respond(http.StatusBadRequest, `{"error":"bad"}`),
	}

	for _, outcome := range outcomes {
		c, tr := newTestClient(t, common.ClientConfig{})
		tr.Fallback(outcome)
		customize := func(d *AliasDescriptor) *AliasDescriptor { return d.Add("a", "b") }

		sync, syncErr := c.Alias(context.Background(), customize)
		async, asyncErr := c.AliasAsync(context.Background(), customize).Await(context.Background())

		if (syncErr == nil) != (asyncErr == nil) {
			t.Fatalf("errors differ: %v / %v", syncErr, asyncErr)
		}
		if sync.IsValid() != async.IsValid() || sync.Acknowledged != async.Acknowledged {
			t.Errorf("sync %+v and async %+v differ", sync, async)
		}
		ss, as := sync.ConnectionStatus(), async.ConnectionStatus()
		if ss.StatusCode != as.StatusCode || ss.Method != as.Method || ss.URI != as.URI || string(ss.Body) != string(as.Body) {
			t.Errorf("connection status differs: %+v / %+v", ss, as)
		}
	}
}

// TestDispatchAsyncCancelled tests that cancelling while waiting for the
// transport yields an invalid response
func TestDispatchAsyncCancelled(t *testing.T) {
	c, tr := newTestClient(t, common.ClientConfig{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	tr.Fallback(func(*common.Request) (int, []byte) {
		<-release
		return http.StatusOK, []byte(`{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	future := c.GetAliasesAsync(ctx, nil)

	select {
	case <-future.Done():
		t.Fatal("future resolved before the transport answered")
	case <-time.After(20 * time.Millisecond):
	}
	cancel()

	resp, err := future.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if resp.IsValid() || !errors.Is(resp.ConnectionStatus().Err, context.Canceled) {
		t.Errorf("expected invalid response caused by cancellation, got %s", resp.DebugInformation())
	}
}

// TestFutureAwaitContext tests that Await stops waiting when its context is done
func TestFutureAwaitContext(t *testing.T) {
	f := &Future[ExistsResponse]{done: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

// TestThrowExceptions tests the error returned next to invalid responses
func TestThrowExceptions(t *testing.T) {
	c, tr := newTestClient(t, common.ClientConfig{ThrowExceptions: true})
	tr.Fallback(memory.Respond(http.StatusInternalServerError, `{"error":"boom"}`))

	resp, err := c.GetAliases(context.Background(), nil)
	var clientErr *common.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *common.ClientError, got %v", err)
	}
	if resp == nil || resp.IsValid() {
		t.Error("the invalid response should be returned next to the error")
	}
	if clientErr.Envelope != resp.ConnectionStatus() || len(clientErr.AuditTrail) != 1 {
		t.Errorf("error should carry the envelope and the audit trail: %+v", clientErr)
	}
	if !strings.Contains(clientErr.Error(), "GetAliasesResponse") {
		t.Errorf("error message should name the operation: %s", clientErr.Error())
	}

	// valid responses are not affected
	tr.Handle(http.MethodHead, "/_alias/x", memory.Respond(http.StatusNotFound, ``))
	exists, err := c.AliasExists(context.Background(), "x", nil)
	if err != nil || !exists.IsValid() {
		t.Errorf("expected valid response without error, got %+v %v", exists, err)
	}

	// async returns the same error
	_, err = c.GetAliasesAsync(context.Background(), nil).Await(context.Background())
	if !errors.As(err, &clientErr) {
		t.Errorf("expected *common.ClientError from async, got %v", err)
	}
}

// TestDispatchMetrics tests the request counters
func TestDispatchMetrics(t *testing.T) {
	c, tr := newTestClient(t, common.ClientConfig{})
	tr.Handle(http.MethodPost, "/_aliases", memory.Respond(http.StatusOK, `{"acknowledged":true}`))
	tr.Fallback(memory.Respond(http.StatusOK, `not json`))

	valid := metrics.GetOrCreateCounter(`esclient_requests_total{response="IndicesOperationResponse",valid="true"}`)
	errs := metrics.GetOrCreateCounter(`esclient_deserialization_errors_total{response="GetAliasesResponse"}`)
	validBefore, errsBefore := valid.Get(), errs.Get()

	if _, err := c.Alias(context.Background(), nil); err != nil {
		t.Fatalf("Alias() error = %v", err)
	}
	if _, err := c.GetAliases(context.Background(), nil); err == nil {
		t.Fatal("GetAliases() should fail on a malformed body")
	}

	if valid.Get() != validBefore+1 {
		t.Errorf("valid request counter = %d, want %d", valid.Get(), validBefore+1)
	}
	if errs.Get() != errsBefore+1 {
		t.Errorf("deserialization error counter = %d, want %d", errs.Get(), errsBefore+1)
	}
}

// --------------------------------------------------------------------------
// Response Mapper
// --------------------------------------------------------------------------

// countingSerializer counts Deserialize calls
type countingSerializer struct {
	serializer.ISerializer
	deserialized int
}

func (s *countingSerializer) Deserialize(b []byte, v any) error {
	s.deserialized++
	return s.ISerializer.Deserialize(b, v)
}

// TestMapResponse tests the envelope inspection of the mapper
func TestMapResponse(t *testing.T) {
	tests := []struct {
		name         string
		env          *common.Envelope
		valid        bool
		acknowledged bool
		deserialized int
		wantErr      bool
	}{
		{"Failed with body", &common.Envelope{Success: false, Body: []byte(`{"acknowledged":true}`)}, false, false, 0, false},
		{"Failed without body", &common.Envelope{Success: false}, false, false, 0, false},
		{"Empty body", &common.Envelope{Success: true, StatusCode: 200}, true, false, 0, false},
		{"Body", &common.Envelope{Success: true, Body: []byte(`{"acknowledged":true}`)}, true, true, 1, false},
		{"Malformed body", &common.Envelope{Success: true, Body: []byte(`{"acknowledged":`)}, false, false, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &countingSerializer{ISerializer: serializer.NewJSONSerializer()}
			resp, err := mapResponse[IndicesOperationResponse](s, &common.RequestParameters{}, tt.env)

			if s.deserialized != tt.deserialized {
				t.Errorf("body deserialized %d times, want %d", s.deserialized, tt.deserialized)
			}
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("mapResponse() error = %v", err)
			}
			if resp.IsValid() != tt.valid || resp.Acknowledged != tt.acknowledged {
				t.Errorf("got valid=%v acknowledged=%v", resp.IsValid(), resp.Acknowledged)
			}
			if resp.ConnectionStatus() != tt.env {
				t.Error("envelope should be attached to the response")
			}
		})
	}
}

// TestMapResponseConverter tests converter precedence and converter errors
func TestMapResponseConverter(t *testing.T) {
	s := &countingSerializer{ISerializer: serializer.NewJSONSerializer()}
	env := &common.Envelope{Success: true, Body: []byte(`{"acknowledged":false}`)}

	params := &AliasRequestParameters{}
	params.DeserializationState(func(*common.Envelope, io.Reader) (*IndicesOperationResponse, error) {
		return &IndicesOperationResponse{Acknowledged: true}, nil
	})
	resp, err := mapResponse[IndicesOperationResponse](s, params.Base(), env)
	if err != nil || !resp.IsValid() || !resp.Acknowledged || s.deserialized != 0 {
		t.Errorf("converter should be used: %+v %v (deserialized %d)", resp, err, s.deserialized)
	}

	// converters are not consulted for failed calls
	failed := &common.Envelope{Success: false}
	resp, err = mapResponse[IndicesOperationResponse](s, params.Base(), failed)
	if err != nil || resp.IsValid() || resp.Acknowledged {
		t.Errorf("failed call should be invalid: %+v %v", resp, err)
	}

	params.DeserializationState(func(*common.Envelope, io.Reader) (*IndicesOperationResponse, error) {
		return nil, errors.New("boom")
	})
	if _, err := mapResponse[IndicesOperationResponse](s, params.Base(), env); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("converter error should be returned, got %v", err)
	}

	params.DeserializationState(func(*common.Envelope, io.Reader) (*IndicesOperationResponse, error) {
		return nil, nil
	})
	if _, err := mapResponse[IndicesOperationResponse](s, params.Base(), env); !errors.Is(err, errNoResponse) {
		t.Errorf("expected errNoResponse, got %v", err)
	}
}

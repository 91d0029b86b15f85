package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
)

// ResponseConverter materializes a typed response from a successful call.
// It is attached to the parameters of a single call (see
// common.RequestParameters.SetDeserializationState) and takes precedence over
// the default deserialization of R.
type ResponseConverter[R any] func(status *common.Envelope, body io.Reader) (*R, error)

// responsePtr is the constraint for pointers to typed responses
type responsePtr[R any] interface {
	*R
	Response
}

var errNoResponse = errors.New("converter returned no response")

// mapResponse turns the envelope of one call into a typed response.
//
//   - unsuccessful call: invalid response, the body is not read
//   - converter attached to params: the converter builds the response
//   - empty body: valid zero response
//   - otherwise the body is deserialized into R
//
// The envelope is always attached to the response. An error is only returned
// if a body could not be deserialized.
func mapResponse[R any, PR responsePtr[R]](s serializer.ISerializer, params *common.RequestParameters, env *common.Envelope) (*R, error) {
	if !env.Success {
		resp := new(R)
		PR(resp).setStatus(false, env)
		return resp, nil
	}

	if state := params.DeserializationState(); state != nil {
		if convert, ok := state.(ResponseConverter[R]); ok {
			resp, err := convert(env, bytes.NewReader(env.Body))
			if err == nil && resp == nil {
				err = errNoResponse
			}
			if err != nil {
				return nil, fmt.Errorf("converting response of %s %s: %w", env.Method, env.URI, err)
			}
			PR(resp).setStatus(true, env)
			return resp, nil
		}
		Logger.Warningf("Ignoring deserialization state of type %T for %s %s", state, env.Method, env.URI)
	}

	resp := new(R)
	if env.HasBody() {
		if err := s.Deserialize(env.Body, resp); err != nil {
			return nil, fmt.Errorf("deserializing response of %s %s: %w", env.Method, env.URI, err)
		}
	}
	PR(resp).setStatus(true, env)
	return resp, nil
}

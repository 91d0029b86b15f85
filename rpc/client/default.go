package client

import (
	"sync"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport/http"
)

// defaultClient is created on first use of Default
var defaultClient = sync.OnceValues(func() (*Client, error) {
	config := common.LoadClientConfig()
	if err := common.InitLoggers(config); err != nil {
		return nil, err
	}
	return NewClient(config, http.NewHttpClientTransport(), serializer.NewJSONSerializer())
})

// Default returns the process wide default client. It is configured from
// .env files and ESC_* environment variables and uses the HTTP transport with
// the JSON serializer.
//
// All callers get the same client (or the same error); the environment is
// only read by the first call.
func Default() (*Client, error) {
	return defaultClient()
}

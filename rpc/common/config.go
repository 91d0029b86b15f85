package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --------------------------------------------------------------------------
// Configuration keys (shared by env variables, config files and CLI flags)
// --------------------------------------------------------------------------

const (
	ConfKeyTimeout          = "timeout"
	ConfKeyEndpoints        = "transport-endpoints"
	ConfKeyRetries          = "transport-retries"
	ConfKeyConnPerEndpoint  = "transport-conn-per-endpoint"
	ConfKeyThrowExceptions  = "throw-exceptions"
	ConfKeyLogLevel         = "log-level"
	ConfKeySerializer       = "serializer"
	ConfKeyTransport        = "transport"
	envPrefix               = "esc"
	defaultEndpoint         = "http://localhost:9200"
	defaultTimeoutSecond    = 10
	defaultRetryCount       = 3
	defaultConnsPerEndpoint = 1
	defaultLogLevel         = "info"
)

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of a client
type ClientConfig struct {
	// Endpoints are the base URLs of the cluster nodes, e.g. http://localhost:9200
	Endpoints []string

	// transport parameters
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int

	// ThrowExceptions makes the client return a *ClientError next to an
	// invalid response instead of only flagging the response as invalid
	ThrowExceptions bool

	// Logging configuration
	LogLevel string
}

// DefaultClientConfig returns the configuration used when nothing is configured
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoints:              []string{defaultEndpoint},
		TimeoutSecond:          defaultTimeoutSecond,
		RetryCount:             defaultRetryCount,
		ConnectionsPerEndpoint: defaultConnsPerEndpoint,
		LogLevel:               defaultLogLevel,
	}
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-24s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))
	addField("Throw Exceptions", strconv.FormatBool(c.ThrowExceptions))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Loading from the environment
// --------------------------------------------------------------------------

// InitEnv loads .env files and makes v read ESC_* environment variables.
// Defaults for all client keys are registered on v.
func InitEnv(v *viper.Viper) {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// defaults
	d := DefaultClientConfig()
	v.SetDefault(ConfKeyTimeout, d.TimeoutSecond)
	v.SetDefault(ConfKeyEndpoints, strings.Join(d.Endpoints, ","))
	v.SetDefault(ConfKeyRetries, d.RetryCount)
	v.SetDefault(ConfKeyConnPerEndpoint, d.ConnectionsPerEndpoint)
	v.SetDefault(ConfKeyThrowExceptions, d.ThrowExceptions)
	v.SetDefault(ConfKeyLogLevel, d.LogLevel)
}

// ClientConfigFrom reads a ClientConfig from v
func ClientConfigFrom(v *viper.Viper) ClientConfig {
	var endpoints []string
	for _, endpoint := range strings.Split(v.GetString(ConfKeyEndpoints), ",") {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			endpoints = append(endpoints, strings.TrimSuffix(endpoint, "/"))
		}
	}

	return ClientConfig{
		Endpoints:              endpoints,
		TimeoutSecond:          v.GetInt(ConfKeyTimeout),
		RetryCount:             v.GetInt(ConfKeyRetries),
		ConnectionsPerEndpoint: v.GetInt(ConfKeyConnPerEndpoint),
		ThrowExceptions:        v.GetBool(ConfKeyThrowExceptions),
		LogLevel:               v.GetString(ConfKeyLogLevel),
	}
}

// LoadClientConfig reads the client configuration from .env files and the environment
func LoadClientConfig() ClientConfig {
	v := viper.New()
	InitEnv(v)
	return ClientConfigFrom(v)
}

package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport"
	"github.com/ValentinKolb/esclient/rpc/transport/http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// Names accepted by the --transport flag
const (
	TransportHTTP   = "http"
	TransportMemory = "memory"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupRPCClientFlags adds the client connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	d := common.DefaultClientConfig()

	key := common.ConfKeyTimeout
	cmd.PersistentFlags().Int(key, d.TimeoutSecond, WrapString("The timeout in seconds of the client"))

	key = common.ConfKeyEndpoints
	cmd.PersistentFlags().String(key, strings.Join(d.Endpoints, ","), WrapString("The base URLs of the cluster nodes. Multiple endpoints can be specified as a comma-separated list"))

	key = common.ConfKeyConnPerEndpoint
	cmd.PersistentFlags().Int(key, d.ConnectionsPerEndpoint, WrapString("Idle connections kept open per endpoint"))

	key = common.ConfKeyRetries
	cmd.PersistentFlags().Int(key, d.RetryCount, WrapString("How many nodes to try before a request fails"))

	key = common.ConfKeyThrowExceptions
	cmd.PersistentFlags().Bool(key, d.ThrowExceptions, WrapString("Report unsuccessful calls as errors"))

	key = common.ConfKeyLogLevel
	cmd.PersistentFlags().String(key, d.LogLevel, WrapString("The log level (debug, info, warn, error)"))
}

// InitClientConfig initializes configuration from .env files and environment variables
func InitClientConfig() {
	common.InitEnv(viper.GetViper())
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() common.ClientConfig {
	return common.ClientConfigFrom(viper.GetViper())
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.ISerializer, error) {
	return serializer.New(viper.GetString(common.ConfKeySerializer))
}

// GetTransport creates transport based on configuration
func GetTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString(common.ConfKeyTransport) {
	case TransportHTTP:
		return http.NewHttpClientTransport(), nil
	case TransportMemory:
		return NewMemoryAliasTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString(common.ConfKeyTransport))
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/esclient/cmd/alias"
	"github.com/ValentinKolb/esclient/cmd/util"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "esc",
		Short: "search engine client",
		Long: fmt.Sprintf(`esc (v%s)

A client for the REST API of a search engine cluster, written in Go.
Requests are dispatched through typed descriptors and the responses
are mapped onto typed response objects.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of esc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("esc v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(alias.AliasCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := common.ConfKeySerializer
	RootCmd.PersistentFlags().String(key, serializer.NameJSON, util.WrapString("serializer to use (json, jsoniter)"))
	key = common.ConfKeyTransport
	RootCmd.PersistentFlags().String(key, util.TransportHTTP, util.WrapString("transport to use (http, memory)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

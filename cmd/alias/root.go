package alias

import (
	"github.com/ValentinKolb/esclient/cmd/util"
	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/transport"
	"github.com/spf13/cobra"
)

var (
	esClient    *client.Client
	esTransport transport.IRPCClientTransport

	// AliasCommands represents the alias command group
	AliasCommands = &cobra.Command{
		Use:                "alias",
		Short:              "Manage index aliases",
		PersistentPreRunE:  setupAliasClient,
		PersistentPostRunE: closeAliasClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common client flags to the alias command
	util.SetupRPCClientFlags(AliasCommands)

	// Add subcommands
	AliasCommands.AddCommand(getCmd)
	AliasCommands.AddCommand(addCmd)
	AliasCommands.AddCommand(removeCmd)
	AliasCommands.AddCommand(existsCmd)
	AliasCommands.AddCommand(perfTestCmd)
}

// setupAliasClient initializes the client used by all alias commands
func setupAliasClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()
	if err := common.InitLoggers(config); err != nil {
		return err
	}

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	esTransport, err = util.GetTransport()
	if err != nil {
		return err
	}

	esClient, err = client.NewClient(config, esTransport, s)
	return err
}

func closeAliasClient(_ *cobra.Command, _ []string) error {
	if esClient == nil {
		return nil
	}
	return esClient.Close()
}

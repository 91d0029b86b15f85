package alias

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ValentinKolb/esclient/rpc/client"
	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [alias]",
		Short: "Lists the aliases, optionally only those matching a name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := esClient.GetAliases(cmd.Context(), customizeGet(cmd, args))
			if err := checkResponse("get aliases", resp, err); err != nil {
				return err
			}

			resp.Indices.Range(func(index string, aliases []client.AliasDefinition) bool {
				names := make([]string, 0, len(aliases))
				for _, a := range aliases {
					names = append(names, describe(a))
				}
				fmt.Printf("%s: [%s]\n", index, strings.Join(names, ", "))
				return true
			})
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [index] [alias]",
		Short: "Adds an alias to an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []client.AliasOption
			if filter, _ := cmd.Flags().GetString("filter"); filter != "" {
				if !json.Valid([]byte(filter)) {
					return fmt.Errorf("filter must be valid JSON")
				}
				opts = append(opts, client.WithFilter(json.RawMessage(filter)))
			}
			if routing, _ := cmd.Flags().GetString("routing"); routing != "" {
				opts = append(opts, client.WithRouting(routing))
			}
			if cmd.Flags().Changed("write-index") {
				writeIndex, _ := cmd.Flags().GetBool("write-index")
				opts = append(opts, client.AsWriteIndex(writeIndex))
			}

			resp, err := esClient.Alias(cmd.Context(), func(d *client.AliasDescriptor) *client.AliasDescriptor {
				return d.Add(args[0], args[1], opts...)
			})
			if err := checkResponse("add alias", resp, err); err != nil {
				return err
			}
			fmt.Printf("added alias %s to %s, acknowledged=%v\n", args[1], args[0], resp.Acknowledged)
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [index] [alias]",
		Short: "Removes an alias from an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := esClient.Alias(cmd.Context(), func(d *client.AliasDescriptor) *client.AliasDescriptor {
				return d.Remove(args[0], args[1])
			})
			if err := checkResponse("remove alias", resp, err); err != nil {
				return err
			}
			fmt.Printf("removed alias %s from %s, acknowledged=%v\n", args[1], args[0], resp.Acknowledged)
			return nil
		},
	}
	existsCmd = &cobra.Command{
		Use:   "exists [alias]",
		Short: "Checks whether an alias exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices, _ := cmd.Flags().GetStringSlice("index")
			resp, err := esClient.AliasExists(cmd.Context(), args[0], func(d *client.AliasExistsDescriptor) *client.AliasExistsDescriptor {
				return d.Index(indices...)
			})
			if err := checkResponse("alias exists", resp, err); err != nil {
				return err
			}
			fmt.Printf("alias=%s, exists=%v\n", args[0], resp.Exists)
			return nil
		},
	}
)

func init() {
	setupGetFlags(getCmd)

	addCmd.Flags().String("filter", "", "Filter query (JSON) limiting the alias")
	addCmd.Flags().String("routing", "", "Routing value for indexing and searching")
	addCmd.Flags().Bool("write-index", false, "Mark the index as write index of the alias")

	existsCmd.Flags().StringSlice("index", nil, "Only check these indices")
}

func setupGetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("index", nil, "Only list aliases of these indices")
	cmd.Flags().Bool("local", false, "Read the aliases from the local node")
}

// customizeGet builds the listing from the flags and args of the get command.
// Flags that were not given are not sent.
func customizeGet(cmd *cobra.Command, args []string) func(*client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
	indices, _ := cmd.Flags().GetStringSlice("index")
	local, _ := cmd.Flags().GetBool("local")
	setLocal := cmd.Flags().Changed("local")

	return func(d *client.GetAliasesDescriptor) *client.GetAliasesDescriptor {
		d = d.Index(indices...)
		if setLocal {
			d = d.Local(local)
		}
		if len(args) > 0 {
			d = d.Alias(args[0])
		}
		return d
	}
}

// checkResponse turns an invalid response into an error carrying its debug information
func checkResponse(op string, resp client.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsValid() {
		return common.NewClientError(op+" failed", resp.ConnectionStatus())
	}
	return nil
}

// describe renders an alias with its routing and write index flag
func describe(a client.AliasDefinition) string {
	var attrs []string
	if a.IndexRouting != "" {
		attrs = append(attrs, "index_routing="+a.IndexRouting)
	}
	if a.SearchRouting != "" {
		attrs = append(attrs, "search_routing="+a.SearchRouting)
	}
	if a.IsWriteIndex != nil && *a.IsWriteIndex {
		attrs = append(attrs, "write")
	}
	if len(a.Filter) > 0 {
		attrs = append(attrs, "filtered")
	}
	if len(attrs) == 0 {
		return a.Name
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(attrs, " "))
}

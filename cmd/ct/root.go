package ct

import (
	"github.com/ValentinKolb/dAttr/cmd/util"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/spf13/cobra"
)

var (
	rpcReplica replica.IReplica

	// ColorTableCommands represents the color table command group
	ColorTableCommands = &cobra.Command{
		Use:               "ct",
		Short:             "Edit the shared color table registry",
		PersistentPreRunE: setupColorTableClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the ct command
	util.SetupRPCClientFlags(ColorTableCommands)

	// Set default shard ID for color table operations (different from query default)
	ColorTableCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	ColorTableCommands.AddCommand(showCmd)
	ColorTableCommands.AddCommand(addCmd)
	ColorTableCommands.AddCommand(rmCmd)
	ColorTableCommands.AddCommand(activeCmd)
	ColorTableCommands.AddCommand(resetCmd)
	ColorTableCommands.AddCommand(watchCmd)
	ColorTableCommands.AddCommand(perfTestCmd)
}

// setupColorTableClient initializes the RPC replica of the color table registry
func setupColorTableClient(cmd *cobra.Command, _ []string) (err error) {
	rpcReplica, err = util.NewReplica(cmd, colortable.TypeName)
	return err
}

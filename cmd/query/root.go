package query

import (
	"fmt"

	"github.com/ValentinKolb/dAttr/cmd/util"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/spf13/cobra"
)

var (
	rpcReplica replica.IReplica

	// QueryCommands represents the query list command group
	QueryCommands = &cobra.Command{
		Use:               "query",
		Short:             "Edit the shared query list",
		PersistentPreRunE: setupQueryClient,
	}

	addCmd = &cobra.Command{
		Use:   "add [name] [type] [coordinate representation]",
		Short: "Adds a query (types: DatabaseQuery, PointQuery, LineQuery; representations: WorldSpace, ScreenSpace)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := querylist.QueryTypeFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid query type %s", args[1])
			}
			rep := querylist.WorldSpace
			if len(args) == 3 {
				if rep, ok = querylist.CoordinateRepresentationFromString(args[2]); !ok {
					return fmt.Errorf("invalid coordinate representation %s", args[2])
				}
			}
			return util.Edit(rpcReplica, querylist.New(), func(q *querylist.QueryList) error {
				if q.QueryExists(args[0], t, rep) {
					return fmt.Errorf("query %s already exists", args[0])
				}
				q.AddQuery(args[0], t, rep)
				return nil
			})
		},
	}
	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Prints the query list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := querylist.New()
			if err := replica.Fetch(rpcReplica, q); err != nil {
				return err
			}
			fmt.Print(q.Dump(""))
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the query command
	util.SetupRPCClientFlags(QueryCommands)

	// Set default shard ID for query list operations
	QueryCommands.PersistentFlags().Int("shard", 200, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	QueryCommands.AddCommand(addCmd)
	QueryCommands.AddCommand(showCmd)
}

// setupQueryClient initializes the RPC replica of the query list
func setupQueryClient(cmd *cobra.Command, _ []string) (err error) {
	rpcReplica, err = util.NewReplica(cmd, querylist.TypeName)
	return err
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/dAttr/cmd/ct"
	"github.com/ValentinKolb/dAttr/cmd/query"
	"github.com/ValentinKolb/dAttr/cmd/serve"
	"github.com/ValentinKolb/dAttr/cmd/util"
	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dattr",
		Short: "replicated attribute subjects",
		Long: fmt.Sprintf(`dAttr (v%s)

Selective-field synchronization of attribute subjects such as the
color table registry, served over RPC and optionally replicated
with RAFT consensus.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dAttr",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dAttr v%s\n", Version)
		},
	}
	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "List the registered subject types",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(attr.DefaultRegistry.Types(), "\n"))
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(ct.ColorTableCommands)
	RootCmd.AddCommand(query.QueryCommands)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(typesCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

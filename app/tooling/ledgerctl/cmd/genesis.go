package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

// genesisCmd represents the genesis command
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Print the genesis block.",
	Run:   genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func genesisRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/genesis", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var blk block
	if err := json.NewDecoder(resp.Body).Decode(&blk); err != nil {
		log.Fatal(err)
	}

	data, err := json.MarshalIndent(blk, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(data))
}

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type block struct {
	Index        uint64         `json:"index"`
	TimeStamp    string         `json:"timestamp"`
	Kind         string         `json:"kind"`
	VehicleID    string         `json:"vehicle_id,omitempty"`
	Sensors      map[string]any `json:"sensors,omitempty"`
	Tag          string         `json:"tag,omitempty"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        uint64         `json:"nonce"`
	Hash         string         `json:"hash"`
}

// blocksCmd represents the blocks command
var blocksCmd = &cobra.Command{
	Use:   "blocks [vehicle]",
	Short: "Print the chain, or only the blocks for a vehicle.",
	Args:  cobra.MaximumNArgs(1),
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}

func blocksRun(cmd *cobra.Command, args []string) {
	endpoint := fmt.Sprintf("%s/v1/blocks/list", url)
	if len(args) == 1 {
		endpoint = fmt.Sprintf("%s/v1/blocks/list/%s", url, args[0])
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var blocks []block
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		log.Fatal(err)
	}

	for _, blk := range blocks {
		fmt.Printf("Block #%d | Hash: %.10s... | Timestamp: %s\n", blk.Index, blk.Hash, blk.TimeStamp)
		if blk.Kind == "telemetry" {
			data, err := json.MarshalIndent(blk.Sensors, "", "  ")
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("  Vehicle: %s\n  Sensors: %s\n", blk.VehicleID, data)
		}
	}
}

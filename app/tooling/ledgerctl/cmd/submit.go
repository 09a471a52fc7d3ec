package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	vehicleID string
	sensors   map[string]string
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Seal a telemetry record into the chain.",
	Run:   submitRun,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&vehicleID, "vehicle", "v", "", "Vehicle identifier.")
	submitCmd.Flags().StringToStringVarP(&sensors, "sensor", "s", nil, "Sensor reading as name=value. Repeatable.")
	submitCmd.MarkFlagRequired("vehicle")
	submitCmd.MarkFlagRequired("sensor")
}

func submitRun(cmd *cobra.Command, args []string) {
	readings := make(map[string]any, len(sensors))
	for name, value := range sensors {
		readings[name] = value
	}

	record := struct {
		VehicleID string         `json:"vehicle_id"`
		Sensors   map[string]any `json:"sensors"`
	}{
		VehicleID: vehicleID,
		Sensors:   readings,
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/telemetry/submit", url), "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}

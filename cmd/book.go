package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/openhail/dispatchd/core/model"
)

var (
	apiAddr     string
	bookUser    string
	bookPickup  float64
	bookDropoff float64
	bookType    string
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Request a test booking against a running service",
	RunE:  runBook,
}

func init() {
	bookCmd.Flags().StringVar(&apiAddr, "addr", "http://localhost:8080", "service base URL")
	bookCmd.Flags().StringVar(&bookUser, "user", "cli-user", "user id")
	bookCmd.Flags().Float64Var(&bookPickup, "pickup", 0, "pickup coordinate")
	bookCmd.Flags().Float64Var(&bookDropoff, "dropoff", 5, "dropoff coordinate")
	bookCmd.Flags().StringVar(&bookType, "type", "Small", "vehicle class")
	rootCmd.AddCommand(bookCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	payload, err := json.Marshal(map[string]any{
		"userId":      bookUser,
		"pickup":      bookPickup,
		"dropoff":     bookDropoff,
		"vehicleType": bookType,
	})
	if err != nil {
		return err
	}
	resp, err := http.Post(apiAddr+"/api/book", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("book request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Success bool           `json:"success"`
		Booking *model.Booking `json:"booking"`
		Message string         `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("booking rejected: %s", out.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "booking %d created, estimated cost %.2f\n", out.Booking.ID, out.Booking.EstimatedCost)
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/openhail/dispatchd/core/model"
	"github.com/openhail/dispatchd/pkg/export"
)

var (
	bookingsAddr   string
	bookingsFormat string
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Booking related commands",
}

var bookingsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List bookings known to a running service",
	RunE:  runBookingsLs,
}

var bookingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bookings from a running service",
	RunE:  runBookingsExport,
}

func init() {
	bookingsCmd.PersistentFlags().StringVar(&bookingsAddr, "addr", "http://localhost:8080", "service base URL")
	bookingsExportCmd.Flags().StringVar(&bookingsFormat, "format", "csv", "output format: csv or json")
	bookingsCmd.AddCommand(bookingsLsCmd)
	bookingsCmd.AddCommand(bookingsExportCmd)
	rootCmd.AddCommand(bookingsCmd)
}

func fetchBookings() ([]model.Booking, error) {
	resp, err := http.Get(bookingsAddr + "/api/bookings")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list bookings: unexpected status %s", resp.Status)
	}
	var bookings []model.Booking
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return bookings, nil
}

func runBookingsLs(cmd *cobra.Command, args []string) error {
	bookings, err := fetchBookings()
	if err != nil {
		return err
	}
	for _, b := range bookings {
		driver := b.DriverID
		if driver == "" {
			driver = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.2f\t%s\n", b.ID, b.UserID, b.Status, b.EstimatedCost, driver)
	}
	return nil
}

func runBookingsExport(cmd *cobra.Command, args []string) error {
	bookings, err := fetchBookings()
	if err != nil {
		return err
	}
	switch bookingsFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), bookings)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), bookings)
	default:
		return fmt.Errorf("unknown format %q", bookingsFormat)
	}
}

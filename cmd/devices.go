package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List V4L2 capture devices",
	Long: `List the /dev/video* devices on this machine with their names and
pixel formats. Devices that exist but cannot be opened are listed with
the error, which usually means a permission problem.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().Bool("json", false, "Output as JSON")
}

// DeviceOutput is the JSON shape of one capture device.
type DeviceOutput struct {
	Path    string   `json:"path"`
	Name    string   `json:"name,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := capture.ListDevices()
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(devicesToOutput(devices))
	}

	if len(devices) == 0 {
		fmt.Println("No capture devices found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tNAME\tFORMATS")
	fmt.Fprintln(w, "------\t----\t-------")

	for _, d := range devices {
		if d.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\n", d.Path, d.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Path, d.Name, strings.Join(d.Formats, ", "))
	}

	w.Flush()

	fmt.Printf("\nTotal: %d devices\n", len(devices))

	return nil
}

func devicesToOutput(devices []capture.DeviceInfo) []DeviceOutput {
	out := make([]DeviceOutput, 0, len(devices))
	for _, d := range devices {
		o := DeviceOutput{Path: d.Path, Name: d.Name, Formats: d.Formats}
		if d.Err != nil {
			o.Error = d.Err.Error()
		}
		out = append(out, o)
	}
	return out
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

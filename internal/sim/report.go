package sim

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"iotsec-sim/internal/engine"
)

var (
	reportTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	reportLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	reportOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reportAlertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	reportDeviceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// PrintSummary renders the run summary as the final results block.
func PrintSummary(w io.Writer, s engine.RunSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, reportTitleStyle.Render("--- Simulation Results ---"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", reportLabelStyle.Render("Run ID:"), s.RunID)
	fmt.Fprintf(tw, "%s\t%s\n", reportLabelStyle.Render("Authorized packets:"), reportOKStyle.Render(fmt.Sprintf("%d", s.Authorized)))
	fmt.Fprintf(tw, "%s\t%s\n", reportLabelStyle.Render("Unauthorized packets:"), reportAlertStyle.Render(fmt.Sprintf("%d", s.Unauthorized)))
	fmt.Fprintf(tw, "%s\t%d\n", reportLabelStyle.Render("Total packets sent:"), s.IntendedSent)
	fmt.Fprintf(tw, "%s\t%d\n", reportLabelStyle.Render("Total packets received:"), s.Received)
	fmt.Fprintf(tw, "%s\t%.2f %%\n", reportLabelStyle.Render("Packet delivery ratio (PDR):"), s.DeliveryRatioPercent)
	if len(s.EnergyConsumedJ) > 0 {
		fmt.Fprintf(tw, "%s\t%.2f mJ\n", reportLabelStyle.Render("Average energy consumption per device:"), s.AverageEnergyConsumedJ*1000)
	}
	tw.Flush()

	if len(s.EnergyConsumedJ) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, reportTitleStyle.Render("Per-device energy consumed"))
		devices := make([]engine.Identity, 0, len(s.EnergyConsumedJ))
		for d := range s.EnergyConsumedJ {
			devices = append(devices, d)
		}
		sort.Slice(devices, func(i, j int) bool { return devices[i] < devices[j] })

		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, d := range devices {
			fmt.Fprintf(tw, "%s\t%.2f mJ\n", reportDeviceStyle.Render(string(d)), s.EnergyConsumedJ[d]*1000)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, reportTitleStyle.Render("--------------------------"))
}

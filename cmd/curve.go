package cmd

import (
	"bytes"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"pwmfand/cmd/global"
	"pwmfand/internal/configuration"
	"pwmfand/internal/curve"
	"pwmfand/internal/ui"
	"strconv"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured temperature to duty mapping to console",
	Run: func(cmd *cobra.Command, args []string) {
		config := configuration.LoadConfig()
		speedCurve := curve.NewSpeedCurve(config)

		// print table
		tab := table.Table{
			Headers: []string{"", ""},
			Rows: [][]string{
				{"Fan off below", strconv.Itoa(config.TempLow) + "°C"},
				{"Full speed at", strconv.Itoa(config.TempMax) + "°C"},
				{"Min duty", strconv.Itoa(config.RpmMin)},
				{"Max duty", strconv.Itoa(config.RpmMax)},
			},
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			ui.Fatal("Error printing curve table: %v", tableErr)
		}
		ui.Printfln(buf.String())

		// print graph
		graphValues := make([]float64, 0)
		for tempC := config.TempLow - 10; tempC <= config.TempMax+10; tempC++ {
			graphValues = append(graphValues, float64(speedCurve.DutyFor(tempC)))
		}
		graph := asciigraph.Plot(
			graphValues,
			asciigraph.Height(15),
			asciigraph.Width(100),
			asciigraph.Caption("duty over °C, starting at "+strconv.Itoa(config.TempLow-10)+"°C"),
		)
		ui.Printfln(graph)
	},
}

func init() {
	rootCmd.AddCommand(curveCmd)
}

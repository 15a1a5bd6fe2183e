package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/ecosim/ecology"
	"github.com/pthm-cable/ecosim/simulation"
)

// RenderTable writes one aligned row per species.
func RenderTable(w io.Writer, rows []ecology.SpeciesRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No Species currently live in the Ecosystem")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tSpecies Name\tPopulation\tGrowth Rate\tMutation Rate\t")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			i,
			r.Name,
			humanize.Comma(r.Population),
			formatRate(r.GrowthRate),
			formatRate(r.MutationRate),
		)
	}
	return tw.Flush()
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// RenderSummary writes the ecosystem overview, or a note when it has no species.
func RenderSummary(w io.Writer, eco *ecology.Ecosystem) {
	if eco == nil {
		fmt.Fprintln(w, "No ecosystem exists yet! Create one first.")
		return
	}
	if eco.Len() == 0 {
		fmt.Fprintf(w, "Ecosystem has %s resources and %v growth rate but no Species exist yet!\n",
			humanize.Comma(eco.Resources()), eco.GrowthRate())
		return
	}
	fmt.Fprintln(w, eco)
}

// RenderGeneration writes the outcome of one generation.
func RenderGeneration(w io.Writer, r ecology.GenerationReport) {
	if r.Skipped {
		fmt.Fprintln(w, "No species currently in the ecosystem. Nothing to simulate.")
		return
	}

	fmt.Fprintf(w, "\n--- Running Generation %d ---\n", r.Generation)
	for _, m := range r.Mutations {
		fmt.Fprintf(w, "%s mutated! New growth rate: %.2f\n", m.Species, m.GrowthRate)
	}
	fmt.Fprintf(w, "\nFood availability = %s\n", r.Food)
	fmt.Fprintf(w, "Total population before = %s\n", humanize.Comma(r.PopulationBefore))
	fmt.Fprintf(w, "Total population after reproduction = %s\n", humanize.Comma(r.PopulationAfter))
	fmt.Fprintf(w, "Resources added = %s\n", humanize.Comma(r.ResourcesAdded))
	fmt.Fprintf(w, "Remaining resources = %s\n", humanize.Comma(r.Resources))
}

// RenderResult writes the end state of a simulation run.
func RenderResult(w io.Writer, res simulation.Result, eco *ecology.Ecosystem) {
	switch res.Outcome {
	case simulation.OutcomeCollapsed:
		fmt.Fprintf(w, "\nEcosystem ran out of Resources after %d %s with Current State:\n",
			res.Generations, generationsWord(res.Generations))
		RenderTable(w, eco.Table())
		return
	case simulation.OutcomeStopped:
		fmt.Fprintf(w, "\nStopped at %d %s:\n", res.Generations, generationsWord(res.Generations))
	default:
		fmt.Fprintf(w, "\nAfter %d %s:\n", res.Generations, generationsWord(res.Generations))
	}
	RenderSummary(w, eco)
	fmt.Fprintln(w, "\nMore detailed:")
	RenderTable(w, eco.Table())
}

func generationsWord(n int) string {
	if n == 1 {
		return "Generation"
	}
	return "Generations"
}

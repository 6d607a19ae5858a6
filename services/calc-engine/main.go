package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gd_valuation/pkg/core/report"
	"gd_valuation/pkg/core/scenario"
	"gd_valuation/pkg/core/validate"

	"github.com/spf13/pflag"
)

// Output is the calculate-mode payload
type Output struct {
	ProjectName string           `json:"project_name"`
	Results     json.RawMessage  `json:"results"`
	Viability   report.Viability `json:"viability"`
	Warnings    []string         `json:"warnings,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := pflag.NewFlagSet("calc-engine", pflag.ContinueOnError)
	mode := fs.String("mode", "calculate", "Mode: check or calculate")
	dataStr := fs.String("data", "", "JSON scenario payload")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *dataStr == "" {
		fmt.Fprintln(stdout, "Error: No data provided")
		return 1
	}

	s, err := scenario.Parse([]byte(*dataStr), scenario.FormatJSON)
	if err != nil {
		fmt.Fprintf(stdout, "Error unmarshaling data: %v\n", err)
		return 1
	}

	switch *mode {
	case "check":
		return runChecks(s, stdout)
	case "calculate":
		return runCalculations(s, stdout)
	default:
		fmt.Fprintf(stdout, "Unknown mode: %s\n", *mode)
		return 1
	}
}

func runChecks(s scenario.Scenario, w io.Writer) int {
	r := validate.ValidateInputs(s)
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	if len(r.Errors) == 0 {
		fmt.Fprintln(w, "Success: scenario is valid")
		return 0
	}
	for _, v := range r.Errors {
		fmt.Fprintf(w, "Error: %s: %s\n", v.Field, v.Message)
	}
	return 1
}

func runCalculations(s scenario.Scenario, w io.Writer) int {
	res := s.Calculate()
	raw, err := json.Marshal(res)
	if err != nil {
		fmt.Fprintf(w, "Error encoding results: %v\n", err)
		return 1
	}

	out := Output{
		ProjectName: s.ProjectName,
		Results:     raw,
		Viability:   report.ScoreViability(res),
		Warnings:    validate.ValidateInputs(s).Warnings,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(w, "Error encoding results: %v\n", err)
		return 1
	}
	return 0
}

package main

import (
	"context"
	"io"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/crawl"
	"github.com/fwojciec/docplan/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Plans     yaml.Plans
	Projects  docplan.ProjectStore
	Runs      docplan.RunService
	Scheduler *crawl.Scheduler
	Runner    *crawl.Runner
	Validator *crawl.Validator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output   string `short:"o" default:"." type:"path" help:"Directory holding scraped_docs_<project> output"`
	PlanFile string `name:"plan-file" env:"DOCPLAN_PLANS" type:"path" help:"YAML file with additional manual plans"`
	Model    string `env:"DOCPLAN_MODEL" default:"gemini-2.5-flash" help:"Gemini model for planning and comparison"`
	Verbose  bool   `short:"v" help:"Log every fetch, render and model call to stderr"`
	Stealth  bool   `env:"DOCPLAN_STEALTH" help:"Hide headless Chrome markers from the sites being rendered"`

	Auto     AutoCmd     `cmd:"" help:"Propose a plan for a site, then crawl it, repairing the plan on mismatch"`
	Manual   ManualCmd   `cmd:"" help:"Crawl a site with a declared manual plan"`
	Validate ValidateCmd `cmd:"" help:"Compare sampled artifacts of a project against the live site"`
	Plans    PlansCmd    `cmd:"" help:"List declared manual plans"`
	History  HistoryCmd  `cmd:"" help:"List recorded runs"`
}

// AutoCmd is the "auto" subcommand.
type AutoCmd struct {
	URL         string `arg:"" help:"Start URL of the documentation"`
	Name        string `arg:"" help:"Project name"`
	Planner     string `enum:"auto,gemini,framework" default:"auto" help:"Plan source: gemini, framework, or auto (gemini when GEMINI_API_KEY is set)"`
	Concurrency int    `short:"c" default:"20" help:"Concurrent fetch limit for the static strategy"`
	MaxAttempts int    `default:"2" help:"Maximum execution attempts, repairs included"`
}

// ManualCmd is the "manual" subcommand.
type ManualCmd struct {
	Plan        string `arg:"" help:"Name of a declared plan (see 'docplan plans')"`
	EntryFetch  bool   `help:"Read the entry page over plain HTTP instead of rendering it"`
	Concurrency int    `short:"c" default:"20" help:"Concurrent fetch limit for the static strategy"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Name    string `arg:"" help:"Project name"`
	Plan    string `help:"Validate with a declared plan instead of proposing one"`
	Planner string `enum:"auto,gemini,framework" default:"auto" help:"Plan source when --plan is not given"`
	Samples int    `short:"n" default:"5" help:"Number of artifacts to sample"`
	Seed    uint64 `help:"Seed for sample selection (0 picks at random)"`
}

// PlansCmd is the "plans" subcommand.
type PlansCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Name  string `arg:"" optional:"" help:"Only show runs of this project"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}

package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/mohilcode/proprompter/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

// PrintApplySummary enumerates every file's individual outcome, never
// just an aggregate.
func PrintApplySummary(results []model.ChangeResult) {
	Header("\n--- Apply Summary ---")
	if len(results) == 0 {
		Info("No changes were applied.")
		return
	}
	for _, r := range results {
		if r.Success {
			Success("ok      %-8s %s", r.Action, r.Path)
		} else {
			Error("failed  %-8s %s: %s", r.Action, r.Path, r.Message)
		}
	}
}

func PrintUndoSummary(s model.Summary) {
	Header("\n--- Undo Summary ---")
	if s.Message != "" {
		Info("%s", s.Message)
	}
	for _, f := range s.Modified {
		fmt.Printf("  - %s\n", f)
	}
	for _, f := range s.Failed {
		Error("  failed: %s", f)
	}
}

func PrintWarnings(warnings []string) {
	for _, w := range warnings {
		Warning("warning: %s", w)
	}
}

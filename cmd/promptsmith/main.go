package main

import (
	"os"

	"github.com/promptsmith/promptsmith/internal/errors"
	"github.com/promptsmith/promptsmith/internal/output"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if err != errExitSilently {
			if errors.IsAppError(err) {
				handler := errors.NewCLIErrorHandler(flagVerbose)
				output.Print(handler.FormatError(err) + "\n")
			} else {
				output.Print("❌ ERROR: " + err.Error() + "\n")
			}
		}
		os.Exit(1)
	}
}

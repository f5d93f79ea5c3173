/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
	"github.com/RobjayMella/Nexus-Web-App/internal/util"
)

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.StyleError.Render("Error:"), technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render(userMsg))
	}
}

// userMessage maps known failures to a short hint.
func userMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotLoggedIn):
		return "You are not logged in. Run 'nexus login --email you@example.com' first."
	case errors.Is(err, util.ErrAmbiguousID):
		return fmt.Sprintf("%v. Use more characters of the ID.", err)
	case errors.Is(err, leave.ErrNotOwner):
		return fmt.Sprintf("%v. Only the person on leave can change or cancel it.", err)
	case errors.Is(err, leave.ErrInvalidWindow):
		return fmt.Sprintf("%v. Dates use YYYY-MM-DD and the end may not precede the start.", err)
	}
	return err.Error()
}

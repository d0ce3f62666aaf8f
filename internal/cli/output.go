package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rowanfield/cartsync/internal/model"
)

// Exit codes, one per class of failure a command can surface. Remote
// failures never produce a non-zero exit: they land in the pending queue
// and show up as a pending count, not as a failed command.
const (
	ExitSuccess      = 0 // command completed
	ExitFailure      = 1 // mutation rejected: validation failure or unknown id
	ExitCommandError = 2 // environment problem: config, snapshot database, wiring
)

// ExitError pairs an error with the process exit code it should produce.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError attaches an exit code and context to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Anything that is not an
// ExitError counts as a rejected mutation.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// listView is the JSON payload for list and status output.
type listView struct {
	Items        []model.Item `json:"items"`
	PendingTotal float64      `json:"pendingTotal"`
	PendingCount int          `json:"pendingCount"`
	Online       bool         `json:"online"`
}

// renderList writes the collection in the requested format.
func renderList(w io.Writer, format string, view listView) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if len(view.Items) == 0 {
		fmt.Fprintln(w, "shopping list is empty")
	} else {
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tTOTAL\tSTATE")
		for _, it := range view.Items {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
				it.ID, it.Name, it.Quantity, it.UnitPrice, it.Total, itemState(it))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\npending total: %.2f", view.PendingTotal)
	if view.PendingCount > 0 {
		fmt.Fprintf(w, " (%d mutation(s) awaiting sync)", view.PendingCount)
	}
	fmt.Fprintln(w)
	return nil
}

func itemState(it model.Item) string {
	var parts []string
	if it.Completed {
		parts = append(parts, "done")
	}
	if it.Local() {
		parts = append(parts, "unsynced")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// renderItem writes a single mutated item.
func renderItem(w io.Writer, format string, it model.Item) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(it)
	}
	fmt.Fprintf(w, "%s  %s  x%d @ %.2f = %.2f\n", it.ID, it.Name, it.Quantity, it.UnitPrice, it.Total)
	return nil
}

// Apply command: feeds serialized write requests to the store. This is the
// CLI stand-in for the message-queue ingestion pipeline that produces write
// requests in the full broker deployment.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/contextgrid/ngsistore/pkg/types"
)

// writeRequest is the newline-delimited JSON envelope read by apply. Kind
// selects the operation; exactly one of the payload fields applies.
type writeRequest struct {
	Kind     string                 `json:"kind"`
	Entity   *types.EntityRequest   `json:"entity,omitempty"`
	Temporal *types.TemporalRequest `json:"temporal,omitempty"`
}

// Request kinds accepted by apply.
const (
	kindEntity         = "entity"
	kindTemporal       = "temporal"
	kindTemporalDelete = "temporal_delete"
)

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply newline-delimited JSON write requests (stdin if no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, "apply:", err)
				os.Exit(exitUserError)
			}
			defer f.Close()
			in = f
		}

		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "apply:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		ctx := context.Background()
		applied := 0
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var req writeRequest
			if err := json.Unmarshal(line, &req); err != nil {
				fmt.Fprintf(os.Stderr, "apply: request %d: %v\n", applied+1, err)
				os.Exit(exitUserError)
			}

			switch {
			case req.Kind == kindEntity && req.Entity != nil:
				err = st.WriteEntity(ctx, *req.Entity)
			case req.Kind == kindTemporal && req.Temporal != nil:
				err = st.WriteTemporalEntity(ctx, *req.Temporal)
			case req.Kind == kindTemporalDelete && req.Temporal != nil:
				err = st.DeleteTemporalEntity(ctx, req.Temporal.Tenant, req.Temporal.ID)
			default:
				err = fmt.Errorf("unknown request kind %q", req.Kind)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "apply: request %d: %v\n", applied+1, err)
				os.Exit(exitUserError)
			}
			applied++
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "apply:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("applied %d request(s)\n", applied)
		return nil
	},
}

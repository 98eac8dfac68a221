package commands

import (
	"github.com/spf13/cobra"

	"github.com/provisionkit/kitchen-linode/cmd/kitchen-linode/handlers"
)

// Destroy returns the destroy command.
//
// Destroy removes the instance recorded in the state file and clears the
// record. A state file without an instance id is a no-op.
func Destroy() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the Linode instance recorded in the state file",
		Long: `Destroy tears down the instance recorded in the run state file and removes
instance_id, hostname and public_ip from it.

An instance the provider no longer knows about is treated as already
destroyed and the state is cleared.

Example:
  kitchen-linode destroy -c driver.yaml -s .kitchen/state.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	bindCommonFlags(cmd, &opts)
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/provisionkit/kitchen-linode/cmd/kitchen-linode/handlers"
)

// Create returns the create command.
//
// Create provisions a single Linode instance, waits until it is running,
// and bootstraps SSH key access on it. The instance id and address are
// written to the state file before the readiness wait, so a run that dies
// mid-wait can still be destroyed later.
func Create() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a Linode instance and bootstrap SSH access",
		Long: `Create provisions a single Linode instance for a test-harness run.

Region, type, image and kernel selectors from the configuration are resolved
against the live catalogs; each accepts an id, an exact name, or a substring.
A root password is generated if none is configured, and an SSH identity is
probed from ~/.ssh/id_rsa or generated when absent.

Calling create with a state file that already records an instance is a no-op.

Example:
  kitchen-linode create -c driver.yaml -s .kitchen/state.yaml -i default-debian-12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts)
		},
	}

	bindCommonFlags(cmd, &opts)
	return cmd
}

// bindCommonFlags binds the flags shared by create and destroy.
func bindCommonFlags(cmd *cobra.Command, opts *handlers.Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to driver configuration file")
	cmd.Flags().StringVarP(&opts.StatePath, "state", "s", ".kitchen/state.yaml", "Path to run state file")
	cmd.Flags().StringVarP(&opts.InstanceName, "instance", "i", "", "Harness instance name (e.g. default-debian-12)")
}

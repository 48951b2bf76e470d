package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/brightdata-go/internal/catalog"
	"github.com/JakeFAU/brightdata-go/internal/dispatch"
)

// newNamespaceCmd builds one namespace command tree (scrape or search)
// directly from the operation catalog, so the CLI surface always matches what
// the dispatcher supports.
func newNamespaceCmd(namespace, short string) *cobra.Command {
	nsCmd := &cobra.Command{
		Use:   namespace,
		Short: short,
	}

	platformCmds := map[string]*cobra.Command{}
	for _, spec := range catalog.All() {
		if spec.Namespace != namespace {
			continue
		}
		pCmd, ok := platformCmds[spec.Platform]
		if !ok {
			pCmd = &cobra.Command{
				Use:   spec.Platform,
				Short: fmt.Sprintf("%s operations for %s", namespace, spec.Platform),
			}
			platformCmds[spec.Platform] = pCmd
			nsCmd.AddCommand(pCmd)
		}
		pCmd.AddCommand(newOperationCmd(spec))
	}
	return nsCmd
}

// newOperationCmd maps one catalog spec onto a leaf command. The primary
// required parameter comes from positional arguments (several when the
// operation fans out over a list); every other declared parameter becomes a
// flag.
func newOperationCmd(spec catalog.Spec) *cobra.Command {
	primary := spec.Required[0]

	use := spec.Operation + " <" + primary.Name + ">"
	args := cobra.ExactArgs(1)
	if spec.BatchParam == primary.Name {
		use += "..."
		args = cobra.MinimumNArgs(1)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: operationShort(spec),
		Args:  args,
	}

	stringFlags := map[string]*string{}
	intFlags := map[string]*int{}
	boolFlags := map[string]*bool{}
	declareFlags := func(params []catalog.Param, required bool) {
		for _, p := range params {
			if p.Name == primary.Name {
				continue
			}
			flag := strings.ReplaceAll(p.Name, "_", "-")
			switch p.Kind {
			case catalog.KindInt:
				def, _ := p.Default.(int)
				intFlags[p.Name] = cmd.Flags().Int(flag, def, "")
			case catalog.KindBool:
				def, _ := p.Default.(bool)
				boolFlags[p.Name] = cmd.Flags().Bool(flag, def, "")
			default:
				def, _ := p.Default.(string)
				stringFlags[p.Name] = cmd.Flags().String(flag, def, "")
			}
			if required {
				_ = cmd.MarkFlagRequired(flag)
			}
		}
	}
	declareFlags(spec.Required, true)
	declareFlags(spec.Optional, false)

	cmd.RunE = func(cmd *cobra.Command, posArgs []string) error {
		client, err := resolveClient(cmd.Context())
		if err != nil {
			return err
		}

		params := map[string]any{}
		if spec.BatchParam == primary.Name && len(posArgs) > 1 {
			params[primary.Name] = posArgs
		} else {
			params[primary.Name] = posArgs[0]
		}
		for name, v := range stringFlags {
			if cmd.Flags().Changed(strings.ReplaceAll(name, "_", "-")) {
				params[name] = *v
			}
		}
		for name, v := range intFlags {
			if cmd.Flags().Changed(strings.ReplaceAll(name, "_", "-")) {
				params[name] = *v
			}
		}
		for name, v := range boolFlags {
			if cmd.Flags().Changed(strings.ReplaceAll(name, "_", "-")) {
				params[name] = *v
			}
		}

		results, err := client.Execute(cmd.Context(), spec.Namespace, spec.Platform, spec.Operation,
			params, dispatch.Options{Timeout: timeout})
		if err != nil {
			return err
		}

		if err := renderResults(cmd.OutOrStdout(), results, outputMode, outputFile); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d operations failed", failed, len(results))
		}
		return nil
	}

	return cmd
}

func operationShort(spec catalog.Spec) string {
	switch spec.Endpoint {
	case catalog.EndpointDataset:
		return fmt.Sprintf("Run the %s %s dataset collection", spec.Platform, spec.Operation)
	case catalog.EndpointSERP:
		return fmt.Sprintf("Search %s", spec.Platform)
	default:
		return fmt.Sprintf("Scrape %s via the web unlocker", spec.Platform)
	}
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simulor-project/simulor/internal/extension"
	"github.com/simulor-project/simulor/internal/output"
)

// extensionBinding is one key/value pair in a loaded namespace.
type extensionBinding struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// extensionsResult lists every registered module and its bindings after
// loading.
type extensionsResult struct {
	Bindings []extensionBinding `json:"bindings"`
}

// WriteTable implements output.TableFormattable.
func (r *extensionsResult) WriteTable(w io.Writer) error {
	rows := make([][]string, 0, len(r.Bindings))
	for _, b := range r.Bindings {
		rows = append(rows, []string{b.Namespace, b.Key, b.Value})
	}
	table := output.NewGroupedWrappingTable(w, 20, 30)
	table.Header([]string{"Namespace", "Key", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WritePlain implements output.PlainFormattable.
func (r *extensionsResult) WritePlain(w io.Writer) error {
	for _, b := range r.Bindings {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", b.Namespace, b.Key, b.Value); err != nil {
			return err
		}
	}
	return nil
}

func newExtensionsCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "extensions",
		Short:   "Load all registered extension modules and list their bindings",
		Args:    cobra.NoArgs,
		GroupID: "utility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := &extensionsResult{}
			for _, name := range extension.Default.Registered() {
				ns, err := extension.Default.Load(name)
				if err != nil {
					return err
				}
				for _, key := range ns.Keys() {
					value, _ := ns.Get(key)
					result.Bindings = append(result.Bindings, extensionBinding{
						Namespace: name,
						Key:       key,
						Value:     fmt.Sprintf("%v", value),
					})
				}
			}
			return writeResult(cmd.OutOrStdout(), d, result)
		},
	}
}

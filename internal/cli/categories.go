package cli

import (
	"github.com/spf13/cobra"
)

func (r *runner) categoriesCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List quiz categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(output); err != nil {
				return err
			}
			a, err := r.application(cmd.Context())
			if err != nil {
				return err
			}
			cats, err := a.Questions.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return renderCategories(r.opts.Out, output, cats)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

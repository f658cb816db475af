package main

import (
	"github.com/aretw0/formbind/internal/cli"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <definition>",
	Short: "Apply values to a form and submit it",
	Long: `Builds the form, applies every --set as a control change and submits it.
Accepted values are printed as JSON; otherwise the error tree is printed and the
command exits with status 1.`,
	Example: `  formbind submit contact.yaml --set name=lily --set 'phone="123"'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		filter, _ := cmd.Flags().GetString("filter")
		return cli.RunSubmit(cmd.Context(), cmd.OutOrStdout(), args[0], cli.SubmitOptions{
			Sets:   sets,
			Filter: filter,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringArray("set", nil, "Set a value before submitting (path=value, repeatable)")
	submitCmd.Flags().String("filter", "mounted", "Submitted values: mounted or all")
}

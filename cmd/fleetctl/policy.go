package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/frontandrew/fleetflow/internal/pkg/policy"
	"github.com/spf13/cobra"
)

var (
	policyFile string

	policyCmd = &cobra.Command{
		Use:   "policy",
		Short: "Print the access policy table",
		Long: `Print every operation with the roles allowed to perform it.
Without --file the built-in table is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := policy.Load(policyFile)
			if err != nil {
				return err
			}
			return printPolicy(cmd.OutOrStdout(), table)
		},
	}
)

func init() {
	policyCmd.Flags().StringVar(&policyFile, "file", "", "Policy YAML file (defaults to the built-in table)")
}

// printPolicy выводит таблицу в две колонки: операция и роли
func printPolicy(w io.Writer, table *policy.Table) error {
	for _, op := range table.Operations() {
		rule, _ := table.Rule(op)
		if _, err := fmt.Fprintf(w, "%-28s %s\n", op, describeRule(rule)); err != nil {
			return err
		}
	}
	return nil
}

func describeRule(rule policy.Rule) string {
	switch {
	case rule.Public:
		return "public"
	case rule.Any:
		return "any authenticated"
	}

	roles := make([]string, len(rule.Roles))
	for i, r := range rule.Roles {
		roles[i] = string(r)
	}
	return strings.Join(roles, ", ")
}

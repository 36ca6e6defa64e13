package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starshot/internal/game/policy"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List all targeting policies",
	Long:  `Shows the targeting policies the ship can play with.`,
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, args []string) {
	names := policy.Names()
	if len(names) == 0 {
		fmt.Println("No policies registered.")
		return
	}

	fmt.Println("Available policies:")
	fmt.Println()
	for _, name := range names {
		marker := "  "
		if name == policy.DefaultName {
			marker = "* "
		}
		fmt.Printf("  %s%s\n", marker, name)
	}
	fmt.Println()
	fmt.Println("Run 'starshot generate <user> --policy <name>' to use one.")
}

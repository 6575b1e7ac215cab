package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/model"
)

// completeNames returns a completion function for staff names.
func completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Cache == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names, err := ctx.Cache.Names(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			completions = append(completions, name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeTypes returns the activity types.
func completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(model.ActivityTypes))
	for _, t := range model.ActivityTypes {
		completions = append(completions, string(t)+"\t"+string(t.Category()))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeCategories returns the target categories.
func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		completions = append(completions, string(c))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeTypeArgs completes the TYPE argument of log.
func completeTypeArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Only complete first argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeTypes(cmd, args, toComplete)
}

// completeTargetSetArgs completes MONTH CATEGORY VALUE.
func completeTargetSetArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		return completeCategories(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

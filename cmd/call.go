package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laquereric/excel-mcp-client/internal/query"
)

var (
	toolArgsJSON   string
	promptArgsJSON string
)

// toolCmd groups tool operations.
var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Work with MCP tools",
}

var toolCallCmd = &cobra.Command{
	Use:   "call <server> <tool>",
	Short: "Call a tool and print its result",
	Long: `Call a named tool on a named server with JSON-encoded arguments and
print the result. JSON results are pretty-printed; failures come back
as an "ERROR: ..." line.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		functions := query.New(newSource())
		fmt.Println(functions.CallTool(cmd.Context(), args[0], args[1], toolArgsJSON))
		return nil
	},
}

// resourceCmd groups resource operations.
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Work with MCP resources",
}

var resourceReadCmd = &cobra.Command{
	Use:   "read <server> <uri>",
	Short: "Read a resource and print its content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		functions := query.New(newSource())
		fmt.Println(functions.ReadResource(cmd.Context(), args[0], args[1]))
		return nil
	},
}

// promptCmd groups prompt operations.
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Work with MCP prompts",
}

var promptGetCmd = &cobra.Command{
	Use:   "get <server> <prompt>",
	Short: "Fetch a prompt with arguments filled in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		functions := query.New(newSource())
		fmt.Println(functions.GetPrompt(cmd.Context(), args[0], args[1], promptArgsJSON))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolCmd)
	toolCmd.AddCommand(toolCallCmd)
	toolCallCmd.Flags().StringVar(&toolArgsJSON, "args", "{}", "Tool arguments as a JSON object")

	rootCmd.AddCommand(resourceCmd)
	resourceCmd.AddCommand(resourceReadCmd)

	rootCmd.AddCommand(promptCmd)
	promptCmd.AddCommand(promptGetCmd)
	promptGetCmd.Flags().StringVar(&promptArgsJSON, "args", "{}", "Prompt arguments as a JSON object")
}

package google_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvaldocariege06/Up-ToDo/internal/google"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/common"
)

// RegisterGoogleTools registers the Google sign-in tools with the MCP server
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	accountOpt := mcp.WithString("account",
		mcp.Description(fmt.Sprintf("Account name (default: '%s'). Used to keep several Google sign-ins apart.", google.DefaultAccount)),
	)

	getAuthURLTool := mcp.NewTool("google_get_auth_url",
		mcp.WithDescription("Get the OAuth URL to sign in with Google for a specific account"),
		accountOpt,
	)
	s.AddTool(getAuthURLTool, common.InstrumentedToolHandler("google_get_auth_url", sc, handleGetAuthURL))

	whoamiTool := mcp.NewTool("google_whoami",
		mcp.WithDescription("Show the owner e-mail new tasks are attributed to: the configured owner or the signed-in Google account"),
	)
	s.AddTool(whoamiTool, common.InstrumentedToolHandler("google_whoami", sc, handleWhoami(sc)))

	if readOnly {
		return nil
	}

	saveAuthCodeTool := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Save the OAuth authorization code to complete Google sign-in for a specific account"),
		accountOpt,
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
	)
	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandler("google_save_auth_code", sc, handleSaveAuthCode))

	return nil
}

func accountArg(args map[string]any) string {
	if account, ok := common.StringArg(args, "account"); ok && account != "" {
		return account
	}
	return google.DefaultAccount
}

func handleGetAuthURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := accountArg(request.GetArguments())

	authURL, err := google.GetAuthURLForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to build the authorization URL for account %s: %v", account, err)), nil
	}

	result := fmt.Sprintf(`To sign in with Google for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code and account name to complete sign-in`, account, authURL)

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := accountArg(args)

	authCode, err := common.RequiredString(args, "authCode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := google.SaveTokenForAccount(ctx, account, authCode); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization code for account %s: %v", account, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Sign-in successful for account '%s'. The token is saved and refreshed as needed.", account)), nil
}

func handleWhoami(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		owner, err := sc.OwnerID(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("No owner: %v. Call google_get_auth_url to sign in.", err)), nil
		}
		return mcp.NewToolResultText(owner), nil
	}
}

package service

import (
	"github.com/louisbranch/millionaire/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerGameTools(server *mcp.Server, client domain.GameClient, identity domain.Identity) {
	mcp.AddTool(server, domain.CreateGameTool(), domain.CreateGameHandler(client, identity))
	mcp.AddTool(server, domain.GetGameTool(), domain.GetGameHandler(client, identity))
	mcp.AddTool(server, domain.AnswerTool(), domain.AnswerHandler(client, identity))
	mcp.AddTool(server, domain.TakeMoneyTool(), domain.TakeMoneyHandler(client, identity))
	mcp.AddTool(server, domain.HelpTool(), domain.HelpHandler(client, identity))
	mcp.AddTool(server, domain.LeaderboardTool(), domain.LeaderboardHandler(client, identity))
}

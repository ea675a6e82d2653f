package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "millionaire.game.v1.GameService"

// Method names of GameService.
const (
	MethodCreateGame      = "CreateGame"
	MethodGetGame         = "GetGame"
	MethodGetActiveGame   = "GetActiveGame"
	MethodAnswerQuestion  = "AnswerQuestion"
	MethodTakeMoney       = "TakeMoney"
	MethodRequestHelp     = "RequestHelp"
	MethodListGames       = "ListGames"
	MethodGetLeaderboard  = "GetLeaderboard"
	MethodGetAccount      = "GetAccount"
	MethodImportQuestions = "ImportQuestions"
)

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// GameServiceServer is the server API for GameService.
type GameServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetActiveGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AnswerQuestion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TakeMoney(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestHelp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGames(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLeaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportQuestions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(GameServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// GameServiceDesc describes GameService for grpc.Server.RegisterService.
var GameServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCreateGame, Handler: unaryHandler(MethodCreateGame, GameServiceServer.CreateGame)},
		{MethodName: MethodGetGame, Handler: unaryHandler(MethodGetGame, GameServiceServer.GetGame)},
		{MethodName: MethodGetActiveGame, Handler: unaryHandler(MethodGetActiveGame, GameServiceServer.GetActiveGame)},
		{MethodName: MethodAnswerQuestion, Handler: unaryHandler(MethodAnswerQuestion, GameServiceServer.AnswerQuestion)},
		{MethodName: MethodTakeMoney, Handler: unaryHandler(MethodTakeMoney, GameServiceServer.TakeMoney)},
		{MethodName: MethodRequestHelp, Handler: unaryHandler(MethodRequestHelp, GameServiceServer.RequestHelp)},
		{MethodName: MethodListGames, Handler: unaryHandler(MethodListGames, GameServiceServer.ListGames)},
		{MethodName: MethodGetLeaderboard, Handler: unaryHandler(MethodGetLeaderboard, GameServiceServer.GetLeaderboard)},
		{MethodName: MethodGetAccount, Handler: unaryHandler(MethodGetAccount, GameServiceServer.GetAccount)},
		{MethodName: MethodImportQuestions, Handler: unaryHandler(MethodImportQuestions, GameServiceServer.ImportQuestions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "millionaire/game/v1/game.proto",
}

// RegisterGameServiceServer registers srv on s.
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameServiceDesc, srv)
}

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

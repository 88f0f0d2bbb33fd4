package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"terminal-terrace/blog-service/internal/article"
	"terminal-terrace/blog-service/internal/comment"
	"terminal-terrace/blog-service/pkg/response"
)

// 服务与方法名，消息体统一为 google.protobuf.Struct
const (
	ArticleServiceName = "blog.v1.ArticleService"
	CommentServiceName = "blog.v1.CommentService"

	ArticleGetMethod     = "/" + ArticleServiceName + "/Get"
	CommentGetTreeMethod = "/" + CommentServiceName + "/GetTree"
)

// ArticleServer 文章 gRPC 接口，请求 {"id": "<uuid>"}
type ArticleServer interface {
	Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CommentServer 评论 gRPC 接口，请求 {"article_id": "<uuid>"}
type CommentServer interface {
	GetTree(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type articleServer struct {
	service article.ArticleService
}

// NewArticleServer 将文章服务暴露为 gRPC
func NewArticleServer(service article.ArticleService) ArticleServer {
	return &articleServer{service: service}
}

func (s *articleServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}
	resp, bizErr := s.service.Get(ctx, ActorFromContext(ctx), id)
	if bizErr != nil {
		return nil, statusFromBusinessError(bizErr)
	}
	return toStruct(resp)
}

type commentServer struct {
	service comment.CommentService
}

// NewCommentServer 将评论服务暴露为 gRPC
func NewCommentServer(service comment.CommentService) CommentServer {
	return &commentServer{service: service}
}

func (s *commentServer) GetTree(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	articleID, err := uuidField(req, "article_id")
	if err != nil {
		return nil, err
	}
	tree, bizErr := s.service.GetTree(ctx, ActorFromContext(ctx), articleID)
	if bizErr != nil {
		return nil, statusFromBusinessError(bizErr)
	}
	return toStruct(tree)
}

var articleServiceDesc = grpc.ServiceDesc{
	ServiceName: ArticleServiceName,
	HandlerType: (*ArticleServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Get",
			Handler: unaryHandler(ArticleGetMethod, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.(ArticleServer).Get(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blog/v1/article.proto",
}

var commentServiceDesc = grpc.ServiceDesc{
	ServiceName: CommentServiceName,
	HandlerType: (*CommentServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTree",
			Handler: unaryHandler(CommentGetTreeMethod, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.(CommentServer).GetTree(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blog/v1/comment.proto",
}

// unaryHandler 等价于 protoc 生成的 _Service_Method_Handler
func unaryHandler(fullMethod string, call func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func uuidField(req *structpb.Struct, name string) (uuid.UUID, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	id, err := uuid.Parse(v.GetStringValue())
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s", name)
	}
	return id, nil
}

// toStruct 经 JSON 转换，字段名与 HTTP 接口一致
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, internalError(fmt.Errorf("marshal response: %w", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, internalError(fmt.Errorf("unmarshal response: %w", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, internalError(fmt.Errorf("build struct: %w", err))
	}
	return out, nil
}

// statusFromBusinessError 业务错误码映射为 gRPC 状态码
func statusFromBusinessError(bizErr *response.BusinessError) error {
	switch bizErr.Code {
	case response.Forbidden:
		return status.Error(codes.PermissionDenied, bizErr.Msg)
	case response.NotFound:
		return status.Error(codes.NotFound, bizErr.Msg)
	case response.InvalidParameter, response.ParseError:
		return status.Error(codes.InvalidArgument, bizErr.Msg)
	case response.Unauthorized, response.TokenExpired:
		return status.Error(codes.Unauthenticated, bizErr.Msg)
	default:
		return internalError(bizErr)
	}
}

func internalError(err error) error {
	zap.L().Error("grpc internal error", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

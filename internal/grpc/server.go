package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"terminal-terrace/blog-service/internal/article"
	"terminal-terrace/blog-service/internal/comment"
	"terminal-terrace/blog-service/internal/identity"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/authsdk"
)

// ServiceName 健康检查中使用的服务名
const ServiceName = "blog"

// Resolver 令牌解析
type Resolver interface {
	Resolve(token string) (*permission.Actor, error)
}

type actorKey struct{}

// ActorFromContext 取出拦截器解析的请求者，缺失时为无权限访客
func ActorFromContext(ctx context.Context) *permission.Actor {
	if actor, ok := ctx.Value(actorKey{}).(*permission.Actor); ok {
		return actor
	}
	return permission.Guest(permission.NewSet())
}

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	log        *zap.Logger
}

// Services 注册到 gRPC 的领域服务，为 nil 的不注册
type Services struct {
	Articles article.ArticleService
	Comments comment.CommentService
}

// NewServer creates a gRPC server exposing the health service and the blog services
// port 为 0 时由系统分配端口
func NewServer(port int, resolver Resolver, log *zap.Logger, services Services) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return newServer(listener, resolver, log, services), nil
}

func newServer(listener net.Listener, resolver Resolver, log *zap.Logger, services Services) *Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLogger(resolver, log)))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Register all services
	if services.Articles != nil {
		grpcServer.RegisterService(&articleServiceDesc, NewArticleServer(services.Articles))
	}
	if services.Comments != nil {
		grpcServer.RegisterService(&commentServiceDesc, NewCommentServer(services.Comments))
	}

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     hs,
		log:        log,
	}
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}

// SetServing 更新健康状态
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Probe 按 interval 调用 check 并同步健康状态，直到 ctx 结束
func (s *Server) Probe(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := check(pctx)
		if err != nil {
			s.log.Warn("health probe failed", zap.Error(err))
		}
		s.SetServing(err == nil)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// unaryLogger 解析调用方身份并记录每次调用
func unaryLogger(resolver Resolver, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		actor, err := resolver.Resolve(authsdk.ExtractTokenFromContext(ctx))
		if err != nil {
			code := codes.Unauthenticated
			if errors.Is(err, identity.ErrCritical) {
				code = codes.Internal
			}
			log.Warn("grpc identity rejected", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(code, "unauthorized")
		}

		resp, err := handler(context.WithValue(ctx, actorKey{}, actor), req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if !actor.IsGuest() {
			fields = append(fields, zap.String("user_id", actor.UserID.String()))
		}
		if err != nil {
			log.Warn("grpc call", append(fields, zap.Error(err))...)
		} else {
			log.Debug("grpc call", fields...)
		}
		return resp, err
	}
}

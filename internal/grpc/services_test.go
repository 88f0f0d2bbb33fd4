package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"terminal-terrace/blog-service/internal/article"
	"terminal-terrace/blog-service/internal/comment"
	articleModel "terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/response"
)

type fakeComments struct {
	comment.CommentService
	published uuid.UUID
}

func (f *fakeComments) GetTree(_ context.Context, actor *permission.Actor, articleID uuid.UUID) (*comment.TreeResponse, *response.BusinessError) {
	if articleID != f.published {
		return nil, response.NotFoundField("article_id")
	}
	if err := actor.CanGetComments(articleModel.StatePublished); err != nil {
		return nil, response.AccessDenied()
	}
	return &comment.TreeResponse{
		Comments: []*comment.TreeNode{{ID: uuid.New(), Content: "first", ArticleID: articleID, Children: []*comment.TreeNode{}}},
		Total:    1,
	}, nil
}

type fakeArticles struct {
	article.ArticleService
	draft  uuid.UUID
	author uuid.UUID
}

func (f *fakeArticles) Get(_ context.Context, actor *permission.Actor, id uuid.UUID) (*article.ArticleResponse, *response.BusinessError) {
	if id != f.draft {
		return nil, response.Critical(errors.New("connection reset"))
	}
	if err := actor.CanGetArticle(f.author, articleModel.StateDraft); err != nil {
		return nil, response.AccessDenied()
	}
	return &article.ArticleResponse{ID: id, Title: "draft", State: articleModel.StateDraft, AuthorID: f.author, Tags: []string{"go"}}, nil
}

func startServices(t *testing.T, resolver Resolver, services Services) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := newServer(lis, resolver, zap.NewNop(), services)
	go func() { _ = srv.Start() }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func TestCommentGetTree(t *testing.T) {
	published := uuid.New()
	reader := &permission.Actor{UserID: uuid.New(), State: permission.Active, Permissions: permission.NewSet(permission.GetPubComment)}
	conn := startServices(t, tokenResolver{"reader": reader}, Services{Comments: &fakeComments{published: published}})

	tests := []struct {
		name     string
		token    string
		fields   map[string]any
		wantCode codes.Code
	}{
		{"reader sees tree", "reader", map[string]any{"article_id": published.String()}, codes.OK},
		{"guest without permission", "", map[string]any{"article_id": published.String()}, codes.PermissionDenied},
		{"unknown article", "reader", map[string]any{"article_id": uuid.NewString()}, codes.NotFound},
		{"malformed id", "reader", map[string]any{"article_id": "nope"}, codes.InvalidArgument},
		{"missing id", "reader", map[string]any{}, codes.InvalidArgument},
		{"forged token", "forged", map[string]any{"article_id": published.String()}, codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if tt.token != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tt.token)
			}

			resp := new(structpb.Struct)
			err := conn.Invoke(ctx, CommentGetTreeMethod, request(t, tt.fields), resp)
			require.Equal(t, tt.wantCode, status.Code(err), "%v", err)
			if tt.wantCode != codes.OK {
				return
			}

			body := resp.AsMap()
			assert.Equal(t, float64(1), body["total"])
			comments := body["comments"].([]any)
			require.Len(t, comments, 1)
			assert.Equal(t, "first", comments[0].(map[string]any)["content"])
		})
	}
}

func TestArticleGet(t *testing.T) {
	author := &permission.Actor{UserID: uuid.New(), State: permission.Active, Permissions: permission.NewSet(permission.GetSelfArticle)}
	stranger := &permission.Actor{UserID: uuid.New(), State: permission.Active, Permissions: permission.NewSet(permission.GetSelfArticle, permission.GetPubArticle)}
	draft := uuid.New()
	conn := startServices(t, tokenResolver{"author": author, "stranger": stranger},
		Services{Articles: &fakeArticles{draft: draft, author: author.UserID}})

	call := func(token string, id string) (*structpb.Struct, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
		resp := new(structpb.Struct)
		err := conn.Invoke(ctx, ArticleGetMethod, request(t, map[string]any{"id": id}), resp)
		return resp, err
	}

	resp, err := call("author", draft.String())
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.AsMap()["title"])
	assert.Equal(t, author.UserID.String(), resp.AsMap()["author_id"])

	_, err = call("stranger", draft.String())
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	// 存储错误不向客户端暴露细节
	_, err = call("author", uuid.NewString())
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
}

func TestUnregisteredServiceIsUnimplemented(t *testing.T) {
	conn := startServices(t, tokenResolver{}, Services{})

	err := conn.Invoke(context.Background(), ArticleGetMethod, request(t, map[string]any{"id": uuid.NewString()}), new(structpb.Struct))
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestActorFromContextDefaultsToGuest(t *testing.T) {
	actor := ActorFromContext(context.Background())
	assert.True(t, actor.IsGuest())
	assert.Zero(t, actor.Permissions.Len())
}

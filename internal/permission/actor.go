package permission

import (
	"fmt"

	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/comment"
)

// UserState 用户生命周期状态
type UserState string

const (
	Active    UserState = "Active"
	NotVerify UserState = "NotVerify"
	Banned    UserState = "Banned"
	Deleted   UserState = "Deleted"
)

// ParseUserState 解析用户状态
func ParseUserState(s string) (UserState, error) {
	switch UserState(s) {
	case Active, NotVerify, Banned, Deleted:
		return UserState(s), nil
	}
	return "", fmt.Errorf("unknown user state %q", s)
}

// Actor 请求发起者，每个请求内不可变
type Actor struct {
	UserID      uuid.UUID
	State       UserState
	Permissions Set
}

// Guest 访客：空用户 ID，Active，使用配置的访客权限
func Guest(perms Set) *Actor {
	return &Actor{
		UserID:      uuid.Nil,
		State:       Active,
		Permissions: perms,
	}
}

// IsGuest 是否为访客
func (a *Actor) IsGuest() bool {
	return a.UserID == uuid.Nil
}

// Owns 是否为资源作者
func (a *Actor) Owns(authorID uuid.UUID) bool {
	return owns(a.UserID, authorID)
}

// 以下为 Actor 上的便捷方法，直接委托给对应的 EnsureCan* 函数

func (a *Actor) CanCreateArticle() error {
	return EnsureCanCreateArticle(a.Permissions, a.State)
}

func (a *Actor) CanUpdateArticle(authorID uuid.UUID) error {
	return EnsureCanUpdateArticle(a.Permissions, a.State, a.UserID, authorID)
}

func (a *Actor) CanDeleteArticle(authorID uuid.UUID) error {
	return EnsureCanDeleteArticle(a.Permissions, a.State, a.UserID, authorID)
}

func (a *Actor) CanGetArticle(authorID uuid.UUID, state article.State) error {
	return EnsureCanGetArticle(a.Permissions, a.State, a.UserID, authorID, state)
}

func (a *Actor) CanFindArticles(filterState article.State, filterAuthor *uuid.UUID) error {
	return EnsureCanFindArticles(a.Permissions, a.State, filterState, filterAuthor, a.UserID)
}

func (a *Actor) CanRateArticle(state article.State) error {
	return EnsureCanRateArticle(a.Permissions, a.State, state)
}

func (a *Actor) CanCreateComment(articleState article.State) error {
	return EnsureCanCreateComment(a.Permissions, a.State, articleState)
}

func (a *Actor) CanUpdateComment(authorID uuid.UUID, state comment.State) error {
	return EnsureCanUpdateComment(a.Permissions, a.State, a.UserID, authorID, state)
}

func (a *Actor) CanDeleteComment(authorID uuid.UUID, state comment.State) error {
	return EnsureCanDeleteComment(a.Permissions, a.State, a.UserID, authorID, state)
}

func (a *Actor) CanGetComment(state comment.State, articleState article.State) error {
	return EnsureCanGetComment(a.Permissions, a.State, state, articleState)
}

func (a *Actor) CanGetComments(articleState article.State) error {
	return EnsureCanGetComments(a.Permissions, a.State, articleState)
}

func (a *Actor) CanRateComment(state comment.State) error {
	return EnsureCanRateComment(a.Permissions, a.State, state)
}

func (a *Actor) CanFindTags() error {
	return EnsureCanFindTags(a.Permissions, a.State)
}

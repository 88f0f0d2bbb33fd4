// Package permission 权限模型与访问决策
// 权限之间没有继承关系，Any / Self / Pub 必须分别显式授予
package permission

import (
	"sort"
)

// Permission 单项能力
type Permission string

const (
	CreateArticle     Permission = "CreateArticle"
	GetAnyArticle     Permission = "GetAnyArticle"
	GetPubArticle     Permission = "GetPubArticle"
	GetSelfArticle    Permission = "GetSelfArticle"
	FindAnyArticle    Permission = "FindAnyArticle"
	FindPubArticle    Permission = "FindPubArticle"
	FindSelfArticle   Permission = "FindSelfArticle"
	UpdateAnyArticle  Permission = "UpdateAnyArticle"
	UpdateSelfArticle Permission = "UpdateSelfArticle"
	DeleteAnyArticle  Permission = "DeleteAnyArticle"
	DeleteSelfArticle Permission = "DeleteSelfArticle"
	RateArticle       Permission = "RateArticle"

	FindTag Permission = "FindTag"

	CreateComment     Permission = "CreateComment"
	GetAnyComment     Permission = "GetAnyComment"
	GetPubComment     Permission = "GetPubComment"
	UpdateAnyComment  Permission = "UpdateAnyComment"
	UpdateSelfComment Permission = "UpdateSelfComment"
	DeleteAnyComment  Permission = "DeleteAnyComment"
	DeleteSelfComment Permission = "DeleteSelfComment"
	RateComment       Permission = "RateComment"
)

// All 完整权限词表
var All = []Permission{
	CreateArticle, GetAnyArticle, GetPubArticle, GetSelfArticle,
	FindAnyArticle, FindPubArticle, FindSelfArticle,
	UpdateAnyArticle, UpdateSelfArticle, DeleteAnyArticle, DeleteSelfArticle,
	RateArticle,
	FindTag,
	CreateComment, GetAnyComment, GetPubComment,
	UpdateAnyComment, UpdateSelfComment, DeleteAnyComment, DeleteSelfComment,
	RateComment,
}

var known = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(All))
	for _, p := range All {
		m[p] = struct{}{}
	}
	return m
}()

// IsKnown 是否属于权限词表
func IsKnown(p Permission) bool {
	_, ok := known[p]
	return ok
}

// Set 无序、去重的权限集合，只按成员关系比较
type Set struct {
	items map[Permission]struct{}
}

// NewSet 由权限列表构建集合
func NewSet(perms ...Permission) Set {
	items := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		items[p] = struct{}{}
	}
	return Set{items: items}
}

// ParseSet 解析权限名列表，未知名称被忽略（绝不授予），同时返回被忽略的名称
func ParseSet(names []string) (Set, []string) {
	items := make(map[Permission]struct{}, len(names))
	var unknown []string
	for _, name := range names {
		p := Permission(name)
		if !IsKnown(p) {
			unknown = append(unknown, name)
			continue
		}
		items[p] = struct{}{}
	}
	return Set{items: items}, unknown
}

// Has 是否包含某权限
func (s Set) Has(p Permission) bool {
	_, ok := s.items[p]
	return ok
}

// Len 集合大小
func (s Set) Len() int {
	return len(s.items)
}

// Names 排序后的权限名，用于日志与序列化
func (s Set) Names() []string {
	names := make([]string, 0, len(s.items))
	for p := range s.items {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

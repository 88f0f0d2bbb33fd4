package permission

import (
	"errors"

	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/comment"
)

// ErrAccessDenied 所有拒绝共用同一个错误，不暴露具体哪条规则失败
var ErrAccessDenied = errors.New("access denied")

// 每个受保护操作对应一个纯函数：返回 nil 表示允许
// 所有规则先检查用户状态必须为 Active

func ensureActive(state UserState) error {
	if state != Active {
		return ErrAccessDenied
	}
	return nil
}

func owns(actorID, authorID uuid.UUID) bool {
	return actorID != uuid.Nil && actorID == authorID
}

// EnsureCanCreateArticle CreateArticle
func EnsureCanCreateArticle(perms Set, state UserState) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(CreateArticle) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanUpdateArticle (UpdateSelfArticle ∧ 作者) ∨ UpdateAnyArticle
func EnsureCanUpdateArticle(perms Set, state UserState, actorID, authorID uuid.UUID) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(UpdateSelfArticle) && owns(actorID, authorID) {
		return nil
	}
	if perms.Has(UpdateAnyArticle) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanDeleteArticle (DeleteSelfArticle ∧ 作者) ∨ DeleteAnyArticle
func EnsureCanDeleteArticle(perms Set, state UserState, actorID, authorID uuid.UUID) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(DeleteSelfArticle) && owns(actorID, authorID) {
		return nil
	}
	if perms.Has(DeleteAnyArticle) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanGetArticle GetAnyArticle ∨ (GetPubArticle ∧ 已发布) ∨ (GetSelfArticle ∧ 作者)
func EnsureCanGetArticle(perms Set, state UserState, actorID, authorID uuid.UUID, articleState article.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(GetAnyArticle) {
		return nil
	}
	if perms.Has(GetPubArticle) && articleState == article.StatePublished {
		return nil
	}
	if perms.Has(GetSelfArticle) && owns(actorID, authorID) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanFindArticles 基于查询条件判断
// FindAnyArticle ∨ (FindPubArticle ∧ 条件状态为已发布) ∨ (FindSelfArticle ∧ 条件作者为本人)
func EnsureCanFindArticles(perms Set, state UserState, filterState article.State, filterAuthor *uuid.UUID, actorID uuid.UUID) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(FindAnyArticle) {
		return nil
	}
	if perms.Has(FindPubArticle) && filterState == article.StatePublished {
		return nil
	}
	if filterAuthor != nil && perms.Has(FindSelfArticle) && owns(actorID, *filterAuthor) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanRateArticle RateArticle ∧ 已发布
func EnsureCanRateArticle(perms Set, state UserState, articleState article.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(RateArticle) && articleState == article.StatePublished {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanCreateComment CreateComment ∧ 文章已发布
func EnsureCanCreateComment(perms Set, state UserState, articleState article.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(CreateComment) && articleState == article.StatePublished {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanUpdateComment (UpdateSelfComment ∧ 作者 ∧ 评论未删除) ∨ UpdateAnyComment
func EnsureCanUpdateComment(perms Set, state UserState, actorID, authorID uuid.UUID, commentState comment.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(UpdateSelfComment) && owns(actorID, authorID) && commentState == comment.StatePublished {
		return nil
	}
	if perms.Has(UpdateAnyComment) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanDeleteComment 评论未删除 ∧ ((DeleteSelfComment ∧ 作者) ∨ DeleteAnyComment)
func EnsureCanDeleteComment(perms Set, state UserState, actorID, authorID uuid.UUID, commentState comment.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if commentState == comment.StateDeleted {
		return ErrAccessDenied
	}
	if perms.Has(DeleteSelfComment) && owns(actorID, authorID) {
		return nil
	}
	if perms.Has(DeleteAnyComment) {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanGetComment GetAnyComment ∨ (GetPubComment ∧ 评论未删除 ∧ 文章非草稿)
func EnsureCanGetComment(perms Set, state UserState, commentState comment.State, articleState article.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(GetAnyComment) {
		return nil
	}
	if perms.Has(GetPubComment) && commentState == comment.StatePublished && articleState != article.StateDraft {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanGetComments 评论树列表：GetAnyComment ∨ (GetPubComment ∧ 文章非草稿)
// 树中已删除的评论由脱敏处理，不在这里拒绝
func EnsureCanGetComments(perms Set, state UserState, articleState article.State) error {
	return EnsureCanGetComment(perms, state, comment.StatePublished, articleState)
}

// EnsureCanRateComment RateComment ∧ 评论未删除
func EnsureCanRateComment(perms Set, state UserState, commentState comment.State) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(RateComment) && commentState == comment.StatePublished {
		return nil
	}
	return ErrAccessDenied
}

// EnsureCanFindTags FindTag
func EnsureCanFindTags(perms Set, state UserState) error {
	if err := ensureActive(state); err != nil {
		return err
	}
	if perms.Has(FindTag) {
		return nil
	}
	return ErrAccessDenied
}

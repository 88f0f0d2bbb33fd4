package comment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	commentModel "terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/rate"
)

const (
	// DeletedPlaceholder 无权查看已删除内容时显示的文本
	DeletedPlaceholder = "this comment has been deleted"
	// MaxTreeDepth 评论树最大深度，根为 0
	MaxTreeDepth = 256
)

var (
	ErrRateCountMismatch = errors.New("comment tree: rate count mismatch")
	ErrTreeTooDeep       = errors.New("comment tree: max depth exceeded")
	ErrTreeCycle         = errors.New("comment tree: unreachable comments")
)

// LeveledComment 评论及其深度（根评论为 0）
type LeveledComment struct {
	Comment commentModel.Comment
	Level   int
}

// TreeNode 评论树节点
type TreeNode struct {
	ID        uuid.UUID          `json:"id"`
	Content   string             `json:"content"`
	AuthorID  uuid.UUID          `json:"author_id"`
	ArticleID uuid.UUID          `json:"article_id"`
	ParentID  *uuid.UUID         `json:"parent_id"`
	Rating    int64              `json:"rating"`
	State     commentModel.State `json:"state"`
	Level     int                `json:"level"`
	SelfRate  rate.State         `json:"self_rate"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at"`
	Children  []*TreeNode        `json:"children"`
}

// DisplayContent 已删除评论对无 GetAnyComment 的查看者显示占位文本
func DisplayContent(c *commentModel.Comment, canSeeDeleted bool) string {
	if c.State == commentModel.StateDeleted && !canSeeDeleted {
		return DeletedPlaceholder
	}
	return c.Content
}

// BuildTree 由扁平评论列表构建评论森林
//
// rows 需已按 created_at 升序，rates 与 rows 一一对应。
// 同级顺序保持输入顺序；父评论不在输入集合中的评论提升为根节点；
// 超过 MaxTreeDepth 或存在无法从根到达的评论（环）时返回错误。
func BuildTree(rows []LeveledComment, rates []rate.State, canSeeDeleted bool) ([]*TreeNode, error) {
	if len(rows) != len(rates) {
		return nil, fmt.Errorf("%w: %d comments, %d rates", ErrRateCountMismatch, len(rows), len(rates))
	}

	present := make(map[uuid.UUID]struct{}, len(rows))
	for i := range rows {
		present[rows[i].Comment.ID] = struct{}{}
	}

	roots := make([]*TreeNode, 0)
	buckets := make(map[uuid.UUID][]*TreeNode)
	for i := range rows {
		c := &rows[i].Comment
		node := &TreeNode{
			ID:        c.ID,
			Content:   DisplayContent(c, canSeeDeleted),
			AuthorID:  c.AuthorID,
			ArticleID: c.ArticleID,
			ParentID:  c.ParentID,
			Rating:    c.Rating,
			State:     c.State,
			Level:     rows[i].Level,
			SelfRate:  rates[i],
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}

		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if _, ok := present[*c.ParentID]; !ok {
			// 孤儿评论：父评论不在结果集中
			roots = append(roots, node)
			continue
		}
		buckets[*c.ParentID] = append(buckets[*c.ParentID], node)
	}

	attached := 0
	var attach func(node *TreeNode, depth int) error
	attach = func(node *TreeNode, depth int) error {
		if depth >= MaxTreeDepth {
			return fmt.Errorf("%w: comment %s", ErrTreeTooDeep, node.ID)
		}
		attached++

		children := buckets[node.ID]
		delete(buckets, node.ID)
		if children == nil {
			children = make([]*TreeNode, 0)
		}
		node.Children = children

		for _, child := range children {
			if err := attach(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := attach(root, 0); err != nil {
			return nil, err
		}
	}

	if attached != len(rows) {
		return nil, fmt.Errorf("%w: %d of %d attached", ErrTreeCycle, attached, len(rows))
	}
	return roots, nil
}

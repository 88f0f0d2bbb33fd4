// Package rate 用户对文章/评论的评价状态
package rate

import "fmt"

// State 三态评价，Neutral 等价于没有评价记录
type State string

const (
	Up      State = "up"
	Neutral State = "neutral"
	Down    State = "down"
)

// ParseState 解析评价状态
func ParseState(s string) (State, error) {
	switch State(s) {
	case Up, Neutral, Down:
		return State(s), nil
	}
	return "", fmt.Errorf("unknown rate state %q", s)
}

// Weight 评分权重：up=1, down=-1, neutral=0
func (s State) Weight() int64 {
	switch s {
	case Up:
		return 1
	case Down:
		return -1
	}
	return 0
}

// RatingExpr 计算 rating 的子查询，table 为评价表，column 为外键列，ref 为被评价对象主键
func RatingExpr(table, column, ref string) string {
	return fmt.Sprintf(
		"COALESCE((SELECT SUM(CASE r.state WHEN 'up' THEN 1 WHEN 'down' THEN -1 ELSE 0 END) FROM %s r WHERE r.%s = %s), 0) AS rating",
		table, column, ref,
	)
}

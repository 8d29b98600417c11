package model

// TreeNode is one item of a rendered tree with its effective settings resolved.
type TreeNode struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           ItemType   `json:"type"`
	Stage          Stage      `json:"stage"`
	Depth          int        `json:"depth"`
	PlaygroundMode bool       `json:"effectivePlaygroundMode"`
	HasAssessment  bool       `json:"effectiveHasAssessment"`
	Children       []TreeNode `json:"children"`
}

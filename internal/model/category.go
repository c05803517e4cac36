package model

// CategoryKind classifies categories.
type CategoryKind string

const (
	CategoryKindIncome     CategoryKind = "income"
	CategoryKindExpense    CategoryKind = "expense"
	CategoryKindTransfer   CategoryKind = "transfer"
	CategoryKindInvestment CategoryKind = "investment"
)

// CategoryKinds lists the closed set of category kinds in display order.
var CategoryKinds = []CategoryKind{
	CategoryKindIncome,
	CategoryKindExpense,
	CategoryKindTransfer,
	CategoryKindInvestment,
}

var categoryKindLabels = map[CategoryKind]string{
	CategoryKindIncome:     "Income",
	CategoryKindExpense:    "Expense",
	CategoryKindTransfer:   "Transfer",
	CategoryKindInvestment: "Investment",
}

// Known reports whether k is one of CategoryKinds.
func (k CategoryKind) Known() bool {
	_, ok := categoryKindLabels[k]
	return ok
}

// Label returns the display label, or the raw value for unknown kinds.
func (k CategoryKind) Label() string {
	if l, ok := categoryKindLabels[k]; ok {
		return l
	}
	return string(k)
}

// FormatCategoryKind returns the display label for a raw category kind value.
func FormatCategoryKind(value string) string {
	return CategoryKind(value).Label()
}

// Category is the canonical category record. ParentID is nil for roots.
type Category struct {
	ID       int64
	Name     string
	Kind     CategoryKind
	ParentID *int64
}

// IsRoot reports whether c has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryInput is what a user edits when creating or updating a category.
type CategoryInput struct {
	Name     string
	Kind     CategoryKind
	ParentID *int64
}

// NormalizeParentID maps absent, zero and negative parent ids to nil.
func NormalizeParentID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}

// CategoryNode is one node of a category tree.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// CategoryTree arranges categories by parent. Categories whose parent is not
// in the list are treated as roots. Input order is preserved among siblings.
func CategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		n := nodes[c.ID]
		if !c.IsRoot() {
			if p, ok := nodes[*c.ParentID]; ok && p != n {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

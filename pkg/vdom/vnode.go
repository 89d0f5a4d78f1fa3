// Package vdom holds the virtual DOM node type shared between the renderer
// and the reactive core. The core only needs the type identity: virtual-DOM
// nodes are deliberately opaque to observation and pass through untouched.
package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Placeholder/comment node
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Props holds attributes and event handlers.
type Props map[string]any

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText and KindComment
}

// NewElement creates an element node.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

// NewText creates a text node.
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// NewComment creates a placeholder node.
func NewComment(text string) *VNode {
	return &VNode{Kind: KindComment, Text: text}
}

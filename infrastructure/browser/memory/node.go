package memory

import (
	"context"
	"fmt"
	"slices"

	"notes_e2e/domain/interfaces"
)

type node struct {
	page *Page
	el   *Element
}

// attached runs fn with the page locked if the element is still on the page
func (n *node) attached(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	if !slices.Contains(n.page.elements, n.el) {
		return ErrStale
	}
	return fn()
}

func (n *node) Click(ctx context.Context) error {
	err := n.attached(ctx, func() error {
		if n.el.Hidden {
			return fmt.Errorf("element %s is not visible", n.el.ID)
		}
		if n.el.Disabled {
			return fmt.Errorf("element %s is disabled", n.el.ID)
		}
		n.page.record("click:%s", n.el.ID)
		return nil
	})
	if err != nil {
		return err
	}
	if n.el.OnClick != nil {
		n.el.OnClick(n.page)
	}
	return nil
}

func (n *node) Fill(ctx context.Context, value string) error {
	return n.attached(ctx, func() error {
		if n.el.Disabled || n.el.ReadOnly {
			return fmt.Errorf("element %s is not editable", n.el.ID)
		}
		n.el.Value = value
		n.page.record("fill:%s=%s", n.el.ID, value)
		return nil
	})
}

func (n *node) Clear(ctx context.Context) error {
	return n.attached(ctx, func() error {
		if n.el.Disabled || n.el.ReadOnly {
			return fmt.Errorf("element %s is not editable", n.el.ID)
		}
		n.el.Value = ""
		n.page.record("clear:%s", n.el.ID)
		return nil
	})
}

func (n *node) TextContent(ctx context.Context) (string, error) {
	var text string
	err := n.attached(ctx, func() error {
		text = n.el.Text
		return nil
	})
	return text, err
}

func (n *node) InputValue(ctx context.Context) (string, error) {
	var value string
	err := n.attached(ctx, func() error {
		value = n.el.Value
		return nil
	})
	return value, err
}

func (n *node) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := n.attached(ctx, func() error {
		visible = !n.el.Hidden
		return nil
	})
	return visible, err
}

func (n *node) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := n.attached(ctx, func() error {
		enabled = !n.el.Disabled
		return nil
	})
	return enabled, err
}

func (n *node) IsEditable(ctx context.Context) (bool, error) {
	var editable bool
	err := n.attached(ctx, func() error {
		editable = !n.el.Disabled && !n.el.ReadOnly
		return nil
	})
	return editable, err
}

func (n *node) SelectOption(ctx context.Context, value string) error {
	return n.attached(ctx, func() error {
		if !slices.Contains(n.el.Options, value) {
			return fmt.Errorf("element %s has no option %q", n.el.ID, value)
		}
		n.el.Value = value
		n.page.record("select:%s=%s", n.el.ID, value)
		return nil
	})
}

var _ interfaces.Node = (*node)(nil)
